package dupescan

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
)

// Verbose levels
const (
	VerboseQuiet  = 0 // warnings only
	VerboseBasic  = 1 // per-root progress and skip reasons
	VerboseDetail = 2 // per-entry classification
	VerboseTrace  = 3 // function entry and exit
)

var (
	globalVerboseLevel int
	debugFlags         map[string]bool
	logOutput          io.Writer = os.Stderr
	logMu              sync.Mutex
)

// SetVerboseLevel sets the global verbose level
func SetVerboseLevel(level int) {
	globalVerboseLevel = level
}

// GetVerboseLevel returns the current verbose level
func GetVerboseLevel() int {
	return globalVerboseLevel
}

// SetLogOutput redirects verbose and warning output, returning the previous writer.
func SetLogOutput(w io.Writer) io.Writer {
	logMu.Lock()
	defer logMu.Unlock()
	prev := logOutput
	if w == nil {
		w = io.Discard
	}
	logOutput = w
	return prev
}

func logf(prefix, format string, args ...interface{}) {
	logMu.Lock()
	defer logMu.Unlock()
	msg := fmt.Sprintf(format, args...)
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	fmt.Fprint(logOutput, prefix+msg)
}

// VerboseEnter logs function entry at level 3+ and returns a defer function for exit logging
func VerboseEnter() func() {
	if globalVerboseLevel < VerboseTrace {
		return func() {}
	}

	pc, _, _, ok := runtime.Caller(1)
	if !ok {
		return func() {}
	}

	funcName := runtime.FuncForPC(pc).Name()
	if idx := strings.LastIndex(funcName, "."); idx != -1 {
		funcName = funcName[idx+1:]
	}

	logf("[TRACE] ", "Entering function: %s", funcName)
	return func() {
		logf("[TRACE] ", "Exiting function: %s", funcName)
	}
}

// VerboseLog logs a message at the specified verbose level
func VerboseLog(level int, format string, args ...interface{}) {
	if globalVerboseLevel >= level {
		logf(fmt.Sprintf("[VERBOSE-%d] ", level), format, args...)
	}
}

// Warningf always logs, regardless of verbose level.
func Warningf(format string, args ...interface{}) {
	logf("Warning: ", format, args...)
}

// DebugLog logs a message when the named debug flag is enabled.
func DebugLog(flag string, format string, args ...interface{}) {
	if IsDebugEnabled(flag) {
		logf("["+strings.ToUpper(flag)+"] ", format, args...)
	}
}

// LogSkip is the default skip handler. Ignored entries only show at level 2;
// every other skip is a warning.
func LogSkip(record SkipRecord) {
	if record.Kind == SkipIgnored {
		VerboseLog(VerboseDetail, "ignored %s", record.Path)
		return
	}
	Warningf("skipped %s", record)
}

// SetDebugFlags sets the debug flags from a comma-separated string
// Supports both simple flags ("scan,hash") and key:value format ("scan:true,hash:false")
func SetDebugFlags(flagsStr string) {
	debugFlags = make(map[string]bool)
	if flagsStr == "" {
		return
	}

	for _, flag := range strings.Split(flagsStr, ",") {
		flag = strings.TrimSpace(flag)
		if flag == "" {
			continue
		}

		parts := strings.SplitN(flag, ":", 2)
		flagName := strings.ToLower(parts[0])
		flagValue := true

		if len(parts) > 1 {
			switch strings.ToLower(parts[1]) {
			case "false", "0", "no", "off":
				flagValue = false
			}
		}

		debugFlags[flagName] = flagValue
	}
}

// IsDebugEnabled returns true if the specified debug flag is enabled
func IsDebugEnabled(flag string) bool {
	if debugFlags == nil {
		return false
	}
	return debugFlags[strings.ToLower(flag)]
}
