package cmd

// DefaultProjectConfigFilename describes the default config filename for a given project folder.
const DefaultProjectConfigFilename = "zkconf.json"

// projectConfigFilenames are the config filenames searched for in the working directory, in order of preference.
var projectConfigFilenames = []string{DefaultProjectConfigFilename, "zkconf.yaml", "zkconf.yml"}

// chainIDCacheFilename is the name of the chain id cache file within the user cache directory.
const chainIDCacheFilename = "chain-ids.db"
