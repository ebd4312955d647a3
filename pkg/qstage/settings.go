package qstage

import (
	"fmt"
	"sort"

	"github.com/quatton/qstage/pkg/qerr"
	"github.com/spf13/cast"
)

// Keys understood in the settings of a request.
const (
	SettingParentFolderSymlink     = "parent_folder_symlink"
	SettingPreviousRestartFile     = "previous_restartfile"
	SettingStoreRestart            = "store_restart"
	SettingAdditionalCmdlineParams = "additional_cmdline_params"
)

// Settings is a read-only snapshot of the additional settings of a job.
// The zero value is an empty snapshot.
type Settings struct {
	values map[string]any
}

// NewSettings copies m into a snapshot. Later changes to m are not observed.
func NewSettings(m map[string]any) Settings {
	if len(m) == 0 {
		return Settings{}
	}
	return Settings{values: cloneMap(m)}
}

// Lookup returns the value stored under key.
func (s Settings) Lookup(key string) (any, bool) {
	v, ok := s.values[key]
	if !ok {
		return nil, false
	}
	return cloneValue(v), true
}

// Keys returns the keys present in the snapshot in sorted order.
func (s Settings) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Map returns a copy of the snapshot.
func (s Settings) Map() map[string]any {
	return cloneMap(s.values)
}

// Options are the settings the stager acts on, with defaults applied.
type Options struct {
	ParentFolderSymlink     bool
	PreviousRestartFile     string
	StoreRestart            bool
	AdditionalCmdlineParams []string

	// Overrides lists the recognised keys that were present.
	Overrides []string
	// Unknown lists the keys that are not recognised.
	Unknown []string
}

// DefaultOptions returns the options of an empty settings snapshot.
func DefaultOptions() Options {
	return Options{
		ParentFolderSymlink: true,
		PreviousRestartFile: DefaultRestartFilename,
	}
}

// Options extracts the known settings from the snapshot.
func (s Settings) Options() (Options, error) {
	opts := DefaultOptions()

	for _, key := range s.Keys() {
		v := s.values[key]
		var err error
		switch key {
		case SettingParentFolderSymlink:
			opts.ParentFolderSymlink, err = cast.ToBoolE(v)
		case SettingPreviousRestartFile:
			opts.PreviousRestartFile, err = cast.ToStringE(v)
			if err == nil && opts.PreviousRestartFile == "" {
				err = fmt.Errorf("empty file name")
			}
		case SettingStoreRestart:
			opts.StoreRestart, err = cast.ToBoolE(v)
		case SettingAdditionalCmdlineParams:
			opts.AdditionalCmdlineParams, err = stringList(v)
			if err != nil {
				return Options{}, qerr.Errorf(qerr.CodeValidation,
					"Invalid value for `%s`, should be list of strings but got: %v", key, v)
			}
		default:
			opts.Unknown = append(opts.Unknown, key)
			continue
		}
		if err != nil {
			return Options{}, qerr.Errorf(qerr.CodeValidation, "Invalid value for `%s`: %v", key, err)
		}
		opts.Overrides = append(opts.Overrides, key)
	}

	return opts, nil
}

func stringList(v any) ([]string, error) {
	switch list := v.(type) {
	case []string:
		return append([]string{}, list...), nil
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("element %v is %T", item, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("value is %T", v)
	}
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case Parameters:
		return Parameters(cloneMap(t))
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return append([]string{}, t...)
	default:
		return v
	}
}
