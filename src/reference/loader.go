package reference

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/chapati23/morning-briefing/src/logger"
	"github.com/chapati23/morning-briefing/src/models"
	"github.com/chapati23/morning-briefing/src/security/validation"
)

var ErrInvalidReference = errors.New("invalid reference data")

//go:embed default_reference.yaml
var defaultReferenceYAML []byte

type rawDocument struct {
	Actors          map[string]rawActor  `yaml:"actors"`
	Committees      map[string]yaml.Node `yaml:"committees"`
	TickerSectors   map[string]string    `yaml:"ticker_sectors"`
	ExcludedTickers []string             `yaml:"excluded_tickers"`
}

type rawActor struct {
	Multiplier *float64 `yaml:"multiplier"`
	Party      string   `yaml:"party"`
	Chamber    string   `yaml:"chamber"`
	State      string   `yaml:"state"`
	Committees []string `yaml:"committees"`
}

type rawCommittee struct {
	Direct     []string `yaml:"direct"`
	Tangential []string `yaml:"tangential"`
}

// Load reads and validates a reference-data YAML file.
func Load(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read reference file: %w", err)
	}
	tables, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("reference file %s: %w", path, err)
	}
	return tables, nil
}

// Default returns the tables bundled with the binary.
func Default() (*Tables, error) {
	return Parse(defaultReferenceYAML)
}

// LoadOrDefault loads path, or the bundled tables when path is empty.
func LoadOrDefault(path string) (*Tables, error) {
	if strings.TrimSpace(path) == "" {
		logger.L.Info("No reference data path configured, using bundled tables")
		return Default()
	}
	return Load(path)
}

// Parse decodes a reference document and runs the validation pass. Every shape check happens
// here so lookups on the returned Tables never need one.
func Parse(data []byte) (*Tables, error) {
	var doc rawDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse yaml: %v", ErrInvalidReference, err)
	}

	committees, err := validateCommittees(doc.Committees)
	if err != nil {
		return nil, err
	}
	known := make(map[string]struct{}, len(committees))
	for _, c := range committees {
		known[nameKey(c.Name)] = struct{}{}
	}

	actors, err := validateActors(doc.Actors, known)
	if err != nil {
		return nil, err
	}

	sectors := make(map[string]string, len(doc.TickerSectors))
	for _, ticker := range sortedKeys(doc.TickerSectors) {
		if err := validation.ValidateTicker(ticker); err != nil {
			return nil, fmt.Errorf("%w: ticker_sectors: %v", ErrInvalidReference, err)
		}
		sector := strings.TrimSpace(doc.TickerSectors[ticker])
		if sector == "" {
			return nil, fmt.Errorf("%w: ticker_sectors: %s has an empty sector", ErrInvalidReference, ticker)
		}
		sectors[ticker] = sector
	}

	for _, ticker := range doc.ExcludedTickers {
		if err := validation.ValidateTicker(ticker); err != nil {
			return nil, fmt.Errorf("%w: excluded_tickers: %v", ErrInvalidReference, err)
		}
	}

	tables := NewTables(actors, committees, sectors, doc.ExcludedTickers)
	stats := tables.Stats()
	logger.L.Info("Reference tables loaded",
		"actors", stats.Actors, "committees", stats.Committees,
		"tickerSectors", stats.TickerSectors, "excluded", stats.Excluded)
	return tables, nil
}

func validateCommittees(raw map[string]yaml.Node) ([]CommitteeSectors, error) {
	out := make([]CommitteeSectors, 0, len(raw))
	for _, name := range sortedKeys(raw) {
		node := raw[name]
		if node.Kind != yaml.MappingNode {
			logger.L.Warn("Skipping non-mapping committee entry", "committee", name, "line", node.Line)
			continue
		}
		var rc rawCommittee
		if err := node.Decode(&rc); err != nil {
			return nil, fmt.Errorf("%w: committee %q: %v", ErrInvalidReference, name, err)
		}
		c := NewCommitteeSectors(strings.TrimSpace(name), rc.Direct, rc.Tangential)
		if len(c.Direct) == 0 && len(c.Tangential) == 0 {
			return nil, fmt.Errorf("%w: committee %q has neither direct nor tangential sectors", ErrInvalidReference, name)
		}
		out = append(out, c)
	}
	return out, nil
}

func validateActors(raw map[string]rawActor, knownCommittees map[string]struct{}) ([]ActorProfile, error) {
	out := make([]ActorProfile, 0, len(raw))
	for _, name := range sortedKeys(raw) {
		ra := raw[name]
		if err := validation.ValidateStringNotEmpty(name, "actor name"); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidReference, err)
		}

		profile := ActorProfile{
			Name:       strings.TrimSpace(name),
			Multiplier: DefaultActorMultiplier,
			State:      strings.ToUpper(strings.TrimSpace(ra.State)),
		}

		if ra.Multiplier != nil {
			if err := validation.ValidatePositiveFloat(*ra.Multiplier, "multiplier"); err != nil {
				return nil, fmt.Errorf("%w: actor %q: %v", ErrInvalidReference, name, err)
			}
			profile.Multiplier = *ra.Multiplier
		}

		if ra.Party != "" {
			profile.Party = models.ParseParty(ra.Party)
			if profile.Party == "" {
				return nil, fmt.Errorf("%w: actor %q: unknown party %q", ErrInvalidReference, name, ra.Party)
			}
		}
		if ra.Chamber != "" {
			profile.Chamber = models.ParseChamber(ra.Chamber)
			if profile.Chamber == "" {
				return nil, fmt.Errorf("%w: actor %q: unknown chamber %q", ErrInvalidReference, name, ra.Chamber)
			}
		}
		if err := validation.ValidateStateCode(profile.State); err != nil {
			return nil, fmt.Errorf("%w: actor %q: %v", ErrInvalidReference, name, err)
		}

		for _, committee := range ra.Committees {
			committee = strings.TrimSpace(committee)
			if committee == "" {
				continue
			}
			if _, ok := knownCommittees[nameKey(committee)]; !ok {
				logger.L.Warn("Actor references unknown committee", "actor", name, "committee", committee)
			}
			profile.Committees = append(profile.Committees, committee)
		}
		out = append(out, profile)
	}
	return out, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
