package fixtures

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SeedFile is the YAML document accepted by Seed.
//
//	accounts:
//	  - username: Duane
//	    password: yanited
//	    blogs:
//	      - {title: Blog 1, author: Author 1, url: http://blog1.com, likes: 5}
type SeedFile struct {
	Accounts []Account `yaml:"accounts"`
}

// LoadSeedFile reads and validates a seed file.
func LoadSeedFile(path string) (*SeedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(raw)
}

// ParseSeed decodes a seed document.
func ParseSeed(raw []byte) (*SeedFile, error) {
	var f SeedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	seen := make(map[string]bool, len(f.Accounts))
	for i, a := range f.Accounts {
		if a.Username == "" || a.Password == "" {
			return nil, fmt.Errorf("account %d: username and password are required", i)
		}
		if seen[a.Username] {
			return nil, fmt.Errorf("account %q listed twice", a.Username)
		}
		seen[a.Username] = true
		for j, b := range a.Blogs {
			if b.Title == "" || b.URL == "" {
				return nil, fmt.Errorf("account %q blog %d: title and url are required", a.Username, j)
			}
		}
	}
	return &f, nil
}

// DefaultAccounts are the two accounts every scenario starts with.
func DefaultAccounts() (user, another Account) {
	return Account{Username: "Duane", Password: "yanited"},
		Account{Username: "AnotherUser", Password: "password123"}
}
