// Package config loads the deny-list configuration file.
//
// The file is INI with a [deplic] section whose banned key holds a
// comma-separated list of license-name fragments:
//
//	[deplic]
//	banned = GPL, AGPL, proprietary
package config

import (
	"strings"

	"github.com/go-ini/ini"

	errs "github.com/matzehuels/deplic/pkg/errors"
)

const (
	Section   = "deplic"
	BannedKey = "banned"
)

// DenyList is a set of lowercase license-name fragments.
type DenyList []string

// LoadDenyList reads the banned entries from the INI file at path.
// A missing or unreadable file, invalid syntax or a missing [deplic]
// section is a CONFIG error. A section without a banned key yields an
// empty list.
func LoadDenyList(path string) (DenyList, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeConfig, err, "read deny list %s", path)
	}

	sec, err := cfg.GetSection(Section)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeConfig, err, "deny list %s has no [%s] section", path, Section)
	}
	if !sec.HasKey(BannedKey) {
		return nil, nil
	}
	return ParseDenyList(sec.Key(BannedKey).String()), nil
}

// ParseDenyList splits a comma-separated value into lowercase, trimmed
// entries. Empty entries and repeats are dropped.
func ParseDenyList(value string) DenyList {
	var out DenyList
	seen := make(map[string]bool)
	for _, part := range strings.Split(value, ",") {
		p := strings.ToLower(strings.TrimSpace(part))
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
