package i

// Logger is the leveled logger handed to every component.
type Logger interface {
	Info(string)
	Warning(string)
	Error(string)
	Debug(string)
}
