package utils

// EmptyString represents a reusable empty string constant.
const EmptyString = ""

const (
	// LoggerInitializationFailedMessageFormat reports a logger that could not be built.
	LoggerInitializationFailedMessageFormat = "initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes fatal command errors.
	ApplicationExecutionFailedMessage = "locus failed"

	// ConfigFileName is the configuration file looked up in the working and global directories.
	ConfigFileName = "config.yaml"
	// GlobalConfigDirectoryName is the directory under the user home holding the global configuration.
	GlobalConfigDirectoryName = ".locus"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
	// IgnoreFileName lists extra names to exclude from a tree rooted in the same directory.
	IgnoreFileName = ".locusignore"
)
