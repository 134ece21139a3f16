package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/crytic/zkconf/logging/colors"
	"github.com/rs/zerolog"
)

// GlobalLogger describes a Logger that is disabled by default and is instantiated when the CLI starts. Each
// module/package should create its own sub-logger so that output is "grep-able" by module.
var GlobalLogger = NewLogger(zerolog.Disabled, false)

// Logger describes a custom logging object that can log events to any arbitrary channel and can handle specialized
// output to console as well
type Logger struct {
	// level describes the log level
	level zerolog.Level

	// multiLogger describes a logger that will be used to output logs to any arbitrary channel(s) in either structured
	// or unstructured format.
	multiLogger zerolog.Logger

	// consoleLogger describes a logger that will be used to output unstructured output to console.
	consoleLogger zerolog.Logger

	// consoleOut is where console output is written.
	consoleOut io.Writer

	// context holds the key-value pairs added through NewSubLogger, so they survive writer changes.
	context map[string]string

	// writers describes a list of io.Writer objects where log output will go.
	writers []io.Writer
}

// LogFormat describes what format to log in
type LogFormat string

const (
	// STRUCTURED describes that logging should be done in structured JSON format
	STRUCTURED LogFormat = "structured"
	// UNSTRUCTURED describes that logging should be done in an unstructured format
	UNSTRUCTURED LogFormat = "unstructured"
)

// StructuredLogInfo describes a key-value mapping that can be used to log structured data
type StructuredLogInfo map[string]any

// NewLogger will create a new Logger object with a specific log level. The Logger can output to console, if enabled,
// and output logs to any number of arbitrary io.Writer channels
func NewLogger(level zerolog.Level, consoleEnabled bool, writers ...io.Writer) *Logger {
	var consoleOut io.Writer
	if consoleEnabled {
		consoleOut = os.Stderr
	}
	return newLogger(level, consoleOut, nil, writers)
}

// NewLoggerWithConsole is NewLogger with console output sent to an arbitrary writer rather than stderr.
func NewLoggerWithConsole(level zerolog.Level, console io.Writer, writers ...io.Writer) *Logger {
	return newLogger(level, console, nil, writers)
}

func newLogger(level zerolog.Level, consoleOut io.Writer, context map[string]string, writers []io.Writer) *Logger {
	l := &Logger{
		level:      level,
		consoleOut: consoleOut,
		context:    context,
		writers:    writers,
	}
	l.rebuild()
	return l
}

// rebuild recreates the underlying zerolog loggers from the current level, writers and context.
func (l *Logger) rebuild() {
	// Both base loggers are disabled unless they have somewhere to write, so that we never dereference nil.
	multi := zerolog.New(io.Discard).Level(zerolog.Disabled)
	console := zerolog.New(io.Discard).Level(zerolog.Disabled)

	if len(l.writers) > 0 {
		multiCtx := zerolog.New(zerolog.MultiLevelWriter(l.writers...)).Level(l.level).With().Timestamp()
		for k, v := range l.context {
			multiCtx = multiCtx.Str(k, v)
		}
		multi = multiCtx.Logger()
	}

	if l.consoleOut != nil {
		consoleWriter := setupDefaultFormatting(zerolog.ConsoleWriter{Out: l.consoleOut, NoColor: !colors.Enabled()}, l.level)
		consoleCtx := zerolog.New(consoleWriter).Level(l.level).With()
		for k, v := range l.context {
			consoleCtx = consoleCtx.Str(k, v)
		}
		console = consoleCtx.Logger()
	}

	l.multiLogger = multi
	l.consoleLogger = console
}

// NewSubLogger will create a new Logger with unique context in the form of a key-value pair. The expected use of this
// function is for each package to have their own unique logger so that parsing of logs is "grep-able" based on some key
func (l *Logger) NewSubLogger(key string, value string) *Logger {
	context := make(map[string]string, len(l.context)+1)
	for k, v := range l.context {
		context[k] = v
	}
	context[key] = value
	return newLogger(l.level, l.consoleOut, context, append([]io.Writer(nil), l.writers...))
}

// AddWriter will add a writer to the list of channels where log output will be sent.
func (l *Logger) AddWriter(writer io.Writer, format LogFormat) {
	// Check to see if the writer is already in the array of writers
	for _, w := range l.writers {
		if writer == w {
			return
		}
	}

	// If we want unstructured output, wrap the base writer object into a console writer so that we get unstructured
	// output with no ANSI coloring
	if format == UNSTRUCTURED {
		writer = &zerolog.ConsoleWriter{Out: writer, NoColor: true}
	}

	l.writers = append(l.writers, writer)
	l.rebuild()
}

// RemoveWriter will remove a writer from the list of writers that the logger manages. If the writer does not exist,
// this function is a no-op. Unstructured writers are wrapped when added, so only structured writers can be removed.
func (l *Logger) RemoveWriter(writer io.Writer) {
	for i, w := range l.writers {
		if writer == w {
			l.writers = append(l.writers[:i], l.writers[i+1:]...)
			l.rebuild()
			return
		}
	}
}

// Level will get the log level of the Logger
func (l *Logger) Level() zerolog.Level {
	return l.level
}

// SetLevel will update the log level of the Logger
func (l *Logger) SetLevel(level zerolog.Level) {
	l.level = level
	l.rebuild()
}

// Trace is a wrapper function that will log a trace event
func (l *Logger) Trace(args ...any) {
	l.log(l.consoleLogger.Trace(), l.multiLogger.Trace(), args, l.level <= zerolog.DebugLevel)
}

// Debug is a wrapper function that will log a debug event
func (l *Logger) Debug(args ...any) {
	l.log(l.consoleLogger.Debug(), l.multiLogger.Debug(), args, l.level <= zerolog.DebugLevel)
}

// Info is a wrapper function that will log an info event
func (l *Logger) Info(args ...any) {
	l.log(l.consoleLogger.Info(), l.multiLogger.Info(), args, l.level <= zerolog.DebugLevel)
}

// Warn is a wrapper function that will log a warning event
func (l *Logger) Warn(args ...any) {
	l.log(l.consoleLogger.Warn(), l.multiLogger.Warn(), args, l.level <= zerolog.DebugLevel)
}

// Error is a wrapper function that will log an error event.
func (l *Logger) Error(args ...any) {
	l.log(l.consoleLogger.Error(), l.multiLogger.Error(), args, l.level <= zerolog.DebugLevel)
}

// Panic is a wrapper function that will log a panic event
func (l *Logger) Panic(args ...any) {
	l.log(l.consoleLogger.Panic(), l.multiLogger.Panic(), args, true)
}

func (l *Logger) log(consoleLog *zerolog.Event, multiLog *zerolog.Event, args []any, debug bool) {
	// Build the messages and retrieve any error or associated structured log info
	consoleMsg, multiMsg, err, info := buildMsgs(args...)

	// Chain the error
	chainError(consoleLog, multiLog, err, debug)

	// Chain the structured log info and messages and send off the logs
	chainStructuredLogInfoAndMsgs(consoleLog, multiLog, info, consoleMsg, multiMsg)
}

// buildMsgs describes a function that takes in a variadic list of arguments of any type and returns two strings and,
// optionally, an error and a StructuredLogInfo object. The first string will be a colorized-string that can be used for
// console logging while the second string will be a non-colorized one that can be used for file/structured logging.
func buildMsgs(args ...any) (string, string, error, StructuredLogInfo) {
	// Guard clause
	if len(args) == 0 {
		return "", "", nil, nil
	}

	// Initialize the base color context, the string buffers and the structured log info object
	colorCtx := colors.Reset
	consoleOutput := make([]string, 0)
	fileOutput := make([]string, 0)
	var info StructuredLogInfo
	var err error

	// Iterate through each argument in the list and switch on type
	for _, arg := range args {
		switch t := arg.(type) {
		case colors.ColorFunc:
			// If the argument is a color function, switch the current color context
			colorCtx = t
		case StructuredLogInfo:
			// Note that only one structured log info can be provided for each log message
			info = t
		case error:
			// Note that only one error can be provided for each log message
			err = t
		case *LogBuffer:
			c, f, _, _ := buildMsgs(t.Args()...)
			consoleOutput = append(consoleOutput, c)
			fileOutput = append(fileOutput, f)
		default:
			// In the base case, append the object to the two string buffers. The console string buffer will have the
			// current color context applied to it.
			consoleOutput = append(consoleOutput, colorCtx(t))
			fileOutput = append(fileOutput, fmt.Sprintf("%v", t))
		}
	}

	return strings.Join(consoleOutput, ""), strings.Join(fileOutput, ""), err, info
}

// chainError is a helper function that takes in a *zerolog.Event for console and multi-log output and chains an error
// to both events. If debug is true, then a stack trace is added to both events as well.
func chainError(consoleLog *zerolog.Event, multiLog *zerolog.Event, err error, debug bool) {
	// Note that even if err is nil, there will not be a panic here
	if debug {
		consoleLog.Stack()
		multiLog.Stack()
	}
	consoleLog.Err(err)
	multiLog.Err(err)
}

// chainStructuredLogInfoAndMsgs is a helper function that takes in a *zerolog.Event for console and multi-log output,
// chains any StructuredLogInfo provided to it, adds the associated messages, and sends out the logs to their respective
// channels.
func chainStructuredLogInfoAndMsgs(consoleLog *zerolog.Event, multiLog *zerolog.Event, info StructuredLogInfo, consoleMsg string, multiMsg string) {
	if info != nil {
		consoleLog.Any("info", info)
		multiLog.Any("info", info)
	}

	// The multi logger message is deferred so that all channels receive a panic log.
	defer multiLog.Msg(multiMsg)
	consoleLog.Msg(consoleMsg)
}

// setupDefaultFormatting will update the console logger's formatting to the zkconf standard
func setupDefaultFormatting(writer zerolog.ConsoleWriter, level zerolog.Level) zerolog.ConsoleWriter {
	// Get rid of the timestamp for console output
	writer.FormatTimestamp = func(i interface{}) string {
		return ""
	}

	// We will define a custom format for each level
	writer.FormatLevel = func(i any) string {
		levelStr, _ := i.(string)
		parsed, err := zerolog.ParseLevel(levelStr)
		if err != nil {
			return levelStr
		}

		switch parsed {
		case zerolog.TraceLevel:
			return colors.CyanBold(zerolog.LevelTraceValue)
		case zerolog.DebugLevel:
			return colors.BlueBold(zerolog.LevelDebugValue)
		case zerolog.InfoLevel:
			return colors.GreenBold(colors.LEFT_ARROW)
		case zerolog.WarnLevel:
			return colors.YellowBold(zerolog.LevelWarnValue)
		case zerolog.ErrorLevel:
			return colors.RedBold(zerolog.LevelErrorValue)
		case zerolog.FatalLevel:
			return colors.RedBold(zerolog.LevelFatalValue)
		case zerolog.PanicLevel:
			return colors.RedBold(zerolog.LevelPanicValue)
		default:
			return levelStr
		}
	}

	// If we are above debug level, we want to get rid of the `module` component when logging to console
	if level > zerolog.DebugLevel {
		writer.FieldsExclude = []string{"module"}
	}

	return writer
}
