package cmd

import (
	"io"
	"os"

	"github.com/crytic/zkconf/logging"
	"github.com/crytic/zkconf/logging/colors"
	"github.com/crytic/zkconf/version"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// cmdLogger is the logger used by all CLI commands. It is recreated once the global logging flags are parsed.
var cmdLogger = logging.NewLogger(zerolog.InfoLevel, true)

// logFile is the structured log file opened for --log-file, closed once the command completes.
var logFile io.WriteCloser

var rootCmd = &cobra.Command{
	Use:               "zkconf",
	Short:             "A project configuration manager for zkSync smart contract toolchains",
	Long:              "zkconf creates, validates and inspects the compiler and network configuration of zkSync smart contract projects",
	Version:           version.GetInfo().Short(),
	PersistentPreRunE: cmdSetupLogging,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLogFile()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "path to the project configuration (default: zkconf.json, zkconf.yaml or zkconf.yml in the working directory)")
	rootCmd.PersistentFlags().String("log-level", zerolog.LevelInfoValue, "console log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-file", "", "path of a file to additionally write structured JSON logs to")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colorized console output")
}

// cmdSetupLogging configures the global logger from the persistent logging flags.
func cmdSetupLogging(cmd *cobra.Command, args []string) error {
	levelStr, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return err
	}
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil || level == zerolog.NoLevel {
		return errors.Errorf("invalid log level '%s'", levelStr)
	}

	noColor, err := cmd.Flags().GetBool("no-color")
	if err != nil {
		return err
	}
	if noColor || os.Getenv("NO_COLOR") != "" {
		colors.DisableColor()
	} else {
		colors.EnableColor()
	}

	logging.GlobalLogger = logging.NewLoggerWithConsole(level, cmd.ErrOrStderr())

	logFilePath, err := cmd.Flags().GetString("log-file")
	if err != nil {
		return err
	}
	if logFilePath != "" {
		f, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return errors.Wrapf(err, "could not open log file '%s'", logFilePath)
		}
		logFile = f
		logging.GlobalLogger.AddWriter(f, logging.STRUCTURED)
	}

	cmdLogger = logging.GlobalLogger.NewSubLogger("module", logging.CLI_SERVICE)
	return nil
}

// closeLogFile closes the structured log file, if one was opened.
func closeLogFile() error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return errors.WithStack(err)
}

// Execute runs the root command, which contains all underlying command logic and handles parsing/invocation.
func Execute() error {
	err := rootCmd.Execute()
	if closeErr := closeLogFile(); err == nil {
		err = closeErr
	}
	return err
}
