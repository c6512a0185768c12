// Package config holds the settings shared by the CLI and the language server.
package config

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

const (
	DefaultGasLimit  = "8000"
	DefaultRemoteURL = "http://localhost:5000"

	// FileName is looked up in the working directory when no --config is given.
	FileName = "scilla.toml"
)

// Settings configures how contracts are checked.
type Settings struct {
	// BinariesPath is the directory containing scilla-checker.
	BinariesPath string `toml:"binaries_path" json:"binariesPath"`
	// StdlibPath is passed to the checker as -libdir.
	StdlibPath string `toml:"stdlib_path" json:"stdlibPath"`
	GasLimit   string `toml:"gas_limit" json:"gasLimit"`

	RemoteDebugging bool   `toml:"remote_debugging" json:"remoteDebugging"`
	RemoteURL       string `toml:"remote_url" json:"remoteUrl"`
	GasReport       bool   `toml:"gas_report" json:"gasReport"`
	TypeInfo        bool   `toml:"type_info" json:"typeInfo"`
}

// Default returns the settings used before any file or client input.
func Default() Settings {
	return Settings{
		GasLimit:  DefaultGasLimit,
		RemoteURL: DefaultRemoteURL,
	}
}

// Load reads a TOML settings file on top of the defaults. Unknown keys are an error.
func Load(fs afero.Fs, path string) (Settings, error) {
	s := Default()

	f, err := fs.Open(path)
	if err != nil {
		return s, errors.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()

	meta, err := toml.NewDecoder(f).Decode(&s)
	if err != nil {
		return s, errors.Errorf("decode config %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return s, errors.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	return s, s.Validate()
}

// LoadOptional loads path when it exists and returns the defaults otherwise.
func LoadOptional(fs afero.Fs, path string) (Settings, error) {
	ok, err := afero.Exists(fs, path)
	if err != nil {
		return Default(), errors.Errorf("stat config %s: %w", path, err)
	}
	if !ok {
		return Default(), nil
	}
	return Load(fs, path)
}

// partial mirrors Settings with optional fields so that client updates only
// override what they carry.
type partial struct {
	BinariesPath    *string `json:"binariesPath"`
	StdlibPath      *string `json:"stdlibPath"`
	GasLimit        *any    `json:"gasLimit"`
	RemoteDebugging *bool   `json:"remoteDebugging"`
	RemoteURL       *string `json:"remoteUrl"`
	GasReport       *bool   `json:"gasReport"`
	TypeInfo        *bool   `json:"typeInfo"`
}

// ApplyJSON merges client settings, either {"scilla": {...}} or the bare object.
func (s Settings) ApplyJSON(raw []byte) (Settings, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return s, nil
	}

	var wrapped struct {
		Scilla *json.RawMessage `json:"scilla"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return s, errors.Errorf("decode settings: %w", err)
	}
	if wrapped.Scilla != nil {
		raw = *wrapped.Scilla
	}

	var p partial
	if err := json.Unmarshal(raw, &p); err != nil {
		return s, errors.Errorf("decode settings: %w", err)
	}

	out := s
	if p.BinariesPath != nil {
		out.BinariesPath = *p.BinariesPath
	}
	if p.StdlibPath != nil {
		out.StdlibPath = *p.StdlibPath
	}
	if p.GasLimit != nil {
		switch v := (*p.GasLimit).(type) {
		case string:
			out.GasLimit = v
		case float64:
			out.GasLimit = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			return s, errors.Errorf("gasLimit: unexpected value %v", v)
		}
	}
	if p.RemoteDebugging != nil {
		out.RemoteDebugging = *p.RemoteDebugging
	}
	if p.RemoteURL != nil {
		out.RemoteURL = *p.RemoteURL
	}
	if p.GasReport != nil {
		out.GasReport = *p.GasReport
	}
	if p.TypeInfo != nil {
		out.TypeInfo = *p.TypeInfo
	}

	if err := out.Validate(); err != nil {
		return s, err
	}
	return out, nil
}

// Validate checks that the gas limit is a positive integer.
func (s Settings) Validate() error {
	n, err := strconv.ParseUint(strings.TrimSpace(s.GasLimit), 10, 64)
	if err != nil || n == 0 {
		return errors.Errorf("gas limit %q is not a positive integer", s.GasLimit)
	}
	if s.RemoteDebugging && s.RemoteURL == "" {
		return errors.New("remote debugging is enabled but no remote URL is set")
	}
	return nil
}
