package logger

// Conf configures the process logger. Values come from viper in cmd.
type Conf struct {
	Level  string
	Format string
}

const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

func DefaultConf() Conf {
	return Conf{
		Level:  "info",
		Format: FormatJSON,
	}
}
