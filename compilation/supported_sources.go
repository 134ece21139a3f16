package compilation

import (
	"fmt"
	"sort"

	"github.com/crytic/zkconf/compilation/sources"
)

// defaultLocatorGenerator is a mapping of compiler source identifier to generator functions which can be used to
// create a default locator for the given source. Each source which provides a generator in this mapping will be
// considered a supported compiler source for a CompilerConfig. Items are populated in the init method.
var defaultLocatorGenerator map[CompilerSource]func() sources.CompilerLocator

// init is called once per inclusion of a package. This method is used on startup to populate
// defaultLocatorGenerator and add supported compiler sources.
func init() {
	generators := []func() sources.CompilerLocator{
		func() sources.CompilerLocator { return sources.NewBinaryLocator() },
		func() sources.CompilerLocator { return sources.NewDockerLocator() },
	}

	defaultLocatorGenerator = make(map[CompilerSource]func() sources.CompilerLocator)
	for _, generator := range generators {
		sourceId := CompilerSource(generator().Source())

		// If this source already exists in our mapping, panic. Each source should have a unique identifier.
		if _, exists := defaultLocatorGenerator[sourceId]; exists {
			panic(fmt.Errorf("the compiler source '%s' is registered with more than one locator", sourceId))
		}
		defaultLocatorGenerator[sourceId] = generator
	}
}

// GetSupportedCompilerSources obtains a sorted list of compiler source identifiers supported by this package.
func GetSupportedCompilerSources() []string {
	sourceIds := make([]string, 0, len(defaultLocatorGenerator))
	for k := range defaultLocatorGenerator {
		sourceIds = append(sourceIds, string(k))
	}
	sort.Strings(sourceIds)
	return sourceIds
}

// IsSupportedCompilerSource returns a boolean status indicating if a compiler source identifier is supported within
// this package.
func IsSupportedCompilerSource(source CompilerSource) bool {
	_, ok := defaultLocatorGenerator[source]
	return ok
}

// GetCompilerLocator obtains a locator from the default generator for the provided compiler source.
func GetCompilerLocator(source CompilerSource) (sources.CompilerLocator, error) {
	generator, ok := defaultLocatorGenerator[source]
	if !ok {
		return nil, fmt.Errorf("compiler source '%s' is unsupported", source)
	}
	return generator(), nil
}
