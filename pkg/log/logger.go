package log

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/op/go-logging"
)

// Level is a logging verbosity, from most to least verbose
type Level int

const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

var levelNames = [...]string{"debug", "info", "notice", "warning", "error"}

var backendLevels = [...]logging.Level{
	logging.DEBUG,
	logging.INFO,
	logging.NOTICE,
	logging.WARNING,
	logging.ERROR,
}

func (l Level) String() string {
	if l < Debug || l > Error {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

var (
	colorFormat = logging.MustStringFormatter(
		`%{color}[%{time:15:04:05.000}] [%{module}] [%{level}]%{color:reset} %{message}`,
	)
	plainFormat = logging.MustStringFormatter(
		`[%{time:15:04:05.000}] [%{module}] [%{level}] %{message}`,
	)
)

// Backend state. Levels are kept here so they survive SetSink and SetColor,
// which rebuild the backend.
var (
	leveledBackend logging.LeveledBackend
	sink           io.Writer = os.Stdout
	colored                  = true
	defaultLevel             = Notice
	moduleLevels             = map[string]Level{}
)

// Logger is the leveled logger used by every package
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Notice(v ...interface{})
	Noticef(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Warning(v ...interface{})
	Warningf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// New creates a logger for module. Its messages are tagged with the module
// name, and SetModuleLevel can give it its own verbosity.
func New(module string) Logger {
	return logging.MustGetLogger(module)
}

// SetSink redirects every logger to w
func SetSink(w io.Writer) {
	sink = w
	rebuild()
}

// SetColor toggles ANSI colors, which are only useful on a terminal
func SetColor(enabled bool) {
	colored = enabled
	rebuild()
}

// SetLevel sets the verbosity of every module without its own level
func SetLevel(level Level) {
	defaultLevel = level
	leveledBackend.SetLevel(backendLevels[level], "")
}

// SetModuleLevel overrides the verbosity of one module, e.g. to debug the BVH
// build without per-tile renderer messages
func SetModuleLevel(module string, level Level) {
	moduleLevels[module] = level
	leveledBackend.SetLevel(backendLevels[level], module)
}

// ParseLevel converts a level name such as "debug" or "warning" into a Level
func ParseLevel(name string) (Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "warn" {
		return Warning, nil
	}
	for level, levelName := range levelNames {
		if name == levelName {
			return Level(level), nil
		}
	}
	return Notice, fmt.Errorf("unknown log level %q", name)
}

// ParseModuleLevel parses a "module=level" override
func ParseModuleLevel(spec string) (string, Level, error) {
	module, name, ok := strings.Cut(spec, "=")
	if !ok || module == "" {
		return "", Notice, fmt.Errorf("invalid module level %q, expected module=level", spec)
	}
	level, err := ParseLevel(name)
	if err != nil {
		return "", Notice, err
	}
	return module, level, nil
}

func rebuild() {
	format := plainFormat
	if colored {
		format = colorFormat
	}
	backend := logging.NewBackendFormatter(logging.NewLogBackend(sink, "", 0), format)
	leveledBackend = logging.AddModuleLevel(backend)
	leveledBackend.SetLevel(backendLevels[defaultLevel], "")
	for module, level := range moduleLevels {
		leveledBackend.SetLevel(backendLevels[level], module)
	}
	logging.SetBackend(leveledBackend)
}

func init() {
	rebuild()
}
