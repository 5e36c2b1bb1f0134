package typescript

import (
	"fmt"

	"github.com/broady/tymock/tymockgen/emit"
)

// DefaultRuntimeModule is the module generated files import the runtime
// registry from.
const DefaultRuntimeModule = "@tymock/runtime"

// DefaultFileSuffix names generated files after their unit.
const DefaultFileSuffix = ".mocks.ts"

// DefaultRuntimeFile is the path of the runtime written when EmitRuntime is set.
const DefaultRuntimeFile = "tymock.runtime.ts"

// TypeScriptConfig contains TypeScript-specific options, read from
// GeneratorConfig.Custom with the keys below.
type TypeScriptConfig struct {
	// RuntimeModule is the import specifier of the runtime registry.
	// Key: "RuntimeModule".
	RuntimeModule string

	// ImportExtension is appended to relative imports between generated
	// files, e.g. ".js" for node16 module resolution.
	// Key: "ImportExtension".
	ImportExtension string

	// EmitRuntime writes the runtime next to the generated files and
	// imports it relatively instead of from RuntimeModule.
	// Key: "EmitRuntime".
	EmitRuntime bool

	// RuntimeFile is the path the runtime is written to.
	// Key: "RuntimeFile".
	RuntimeFile string
}

// ParseConfig reads TypeScriptConfig from the Custom map of cfg.
func ParseConfig(cfg emit.GeneratorConfig) (TypeScriptConfig, error) {
	ts := TypeScriptConfig{
		RuntimeModule: DefaultRuntimeModule,
		RuntimeFile:   DefaultRuntimeFile,
	}
	for key, value := range cfg.Custom {
		switch key {
		case "RuntimeModule":
			s, ok := value.(string)
			if !ok {
				return ts, fmt.Errorf("RuntimeModule: want string, got %T", value)
			}
			if s != "" {
				ts.RuntimeModule = s
			}
		case "ImportExtension":
			s, ok := value.(string)
			if !ok {
				return ts, fmt.Errorf("ImportExtension: want string, got %T", value)
			}
			ts.ImportExtension = s
		case "EmitRuntime":
			b, ok := value.(bool)
			if !ok {
				return ts, fmt.Errorf("EmitRuntime: want bool, got %T", value)
			}
			ts.EmitRuntime = b
		case "RuntimeFile":
			s, ok := value.(string)
			if !ok {
				return ts, fmt.Errorf("RuntimeFile: want string, got %T", value)
			}
			if s != "" {
				ts.RuntimeFile = s
			}
		}
	}
	return ts, nil
}
