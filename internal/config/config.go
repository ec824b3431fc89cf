// =============================================================================
// SEPA Batch Generator - Configuration Module
// =============================================================================
//
// Profiles bundle the recurring header values (message id prefix, initiating
// party, debtor identity) plus an optional template path, so a scheduled run
// does not repeat five flags. The file is plain YAML and is decoded strictly:
// unknown keys are rejected rather than silently dropped.
//
// Resolution order is flag > profile > built-in default and is owned by the
// command layer. This package only loads the file and hands out profiles.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile holds the header defaults one payer identity needs. Empty fields
// are unset; the command layer fills them from flags or built-in defaults.
type Profile struct {
	// IDPrefix seeds the message identifier (normalized to five characters).
	IDPrefix string `yaml:"id_prefix"`

	// InitiatingParty is the name stamped into the group header.
	InitiatingParty string `yaml:"initiating_party"`

	// DebtorName, DebtorIBAN and DebtorBIC identify the paying account.
	DebtorName string `yaml:"debtor_name"`
	DebtorIBAN string `yaml:"debtor_iban"`
	DebtorBIC  string `yaml:"debtor_bic"`

	// Template is the path of the pain.001.001.03 template document to
	// populate. Optional; the generate command falls back to its flag
	// default when unset.
	Template string `yaml:"template"`
}

// File is a parsed configuration file: named profiles plus the name of the
// one to apply when no profile is requested explicitly.
type File struct {
	DefaultProfile string             `yaml:"default_profile"`
	Profiles       map[string]Profile `yaml:"profiles"`
}

// Load reads and parses the configuration file at path. The raw open error
// is wrapped, not swallowed, so callers can distinguish a missing file from
// a malformed one. An empty file is a valid configuration with no profiles.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var cfg File
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &File{}, nil
		}
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return &cfg, nil
}

// validate checks cross-field consistency after decoding.
func validate(cfg *File) error {
	if cfg.DefaultProfile == "" {
		return nil
	}
	if _, ok := cfg.Profiles[cfg.DefaultProfile]; !ok {
		return fmt.Errorf("default profile %q is not defined", cfg.DefaultProfile)
	}
	return nil
}

// Resolve returns the profile to apply for this run. An empty name selects
// the file's default profile; if the file names no default either, a zero
// profile is returned and every value comes from flags. Asking for a named
// profile that does not exist is an error. Resolve is safe on a nil receiver,
// which stands for "no configuration file loaded".
func (f *File) Resolve(name string) (Profile, error) {
	if f == nil {
		if name == "" {
			return Profile{}, nil
		}
		return Profile{}, fmt.Errorf("profile %q requested but no config file is loaded", name)
	}

	if name == "" {
		name = f.DefaultProfile
	}
	if name == "" {
		return Profile{}, nil
	}

	p, ok := f.Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("profile %q is not defined", name)
	}
	return p, nil
}
