package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mesh-intelligence/faktor/internal/sqlite"
	"github.com/mesh-intelligence/faktor/pkg/types"
)

// validTableNamesStr lists the table names for error output.
var validTableNamesStr = strings.Join(types.StandardTableNames, ", ")

// attachBackend resolves the data directory and attaches a SQLite
// backend. The caller must defer backend.Detach().
func attachBackend() (*sqlite.Backend, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, sysError(fmt.Errorf("resolve data dir: %w", err))
	}
	backend := sqlite.NewBackend()
	if err := backend.Attach(cfg.repoConfig(dataDir)); err != nil {
		if errors.Is(err, types.ErrBackendUnknown) || errors.Is(err, types.ErrSyncStrategyUnknown) {
			return nil, userError("config: %w", err)
		}
		return nil, sysError(fmt.Errorf("attach backend: %w", err))
	}
	return backend, nil
}

// withProject attaches the backend, loads the project and runs fn.
func withProject(fn func(b *sqlite.Backend, p *types.Project) error) error {
	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	p, err := backend.LoadProject()
	if err != nil {
		return sysError(fmt.Errorf("load project: %w", err))
	}
	return fn(backend, p)
}

// findCmpt returns the named component or a user error.
func findCmpt(p *types.Project, name string) (*types.ProductCmpt, error) {
	pc := p.FindProductCmpt(name)
	if pc == nil {
		return nil, userError("product component %q not found", name)
	}
	return pc, nil
}

// selectCmpts returns the named components, or every component when
// names is empty.
func selectCmpts(p *types.Project, names []string) ([]*types.ProductCmpt, error) {
	if len(names) == 0 {
		return p.ProductCmpts(), nil
	}
	out := make([]*types.ProductCmpt, 0, len(names))
	for _, n := range names {
		pc, err := findCmpt(p, n)
		if err != nil {
			return nil, err
		}
		out = append(out, pc)
	}
	return out, nil
}

// findContainer returns the static container, or the generation valid
// from the given date when generation is not empty.
func findContainer(pc *types.ProductCmpt, generation string) (*types.Container, error) {
	if generation == "" {
		return pc.Static(), nil
	}
	date, err := time.Parse(types.DateLayout, generation)
	if err != nil {
		return nil, userError("invalid generation date %q (expected %s)", generation, types.DateLayout)
	}
	g := pc.Generation(date)
	if g == nil {
		return nil, userError("%s has no generation valid from %s", pc.QualifiedName, generation)
	}
	return g, nil
}

// parseFilter turns key=value arguments into a filter. Values that parse
// as JSON keep their JSON type.
func parseFilter(args []string) (types.Filter, error) {
	filter := types.Filter{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, userError("invalid filter %q (expected key=value)", arg)
		}
		var parsed any
		if err := json.Unmarshal([]byte(value), &parsed); err != nil {
			parsed = value
		}
		filter[key] = parsed
	}
	return filter, nil
}

// payload renders the payload of pv for listings.
func payload(pv *types.PropertyValue) string {
	switch pv.ValueType {
	case types.ValueTypeAttributeValue, types.ValueTypeConfiguredDefault:
		if pv.Holder != nil {
			return pv.Holder.String()
		}
	case types.ValueTypeConfiguredValueSet:
		if pv.ValueSet != nil {
			return pv.ValueSet.String()
		}
	case types.ValueTypeFormula:
		return pv.Expression
	case types.ValueTypeTableContentUsage:
		return pv.TableContentName
	case types.ValueTypeValidationRuleConfig:
		return strconv.FormatBool(pv.Active)
	}
	return ""
}

func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError(fmt.Errorf("marshal output: %w", err))
	}
	fmt.Fprintln(w, string(out))
	return nil
}
