package transfer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// documentKey is the top-level key of a persisted transfer function
const documentKey = "Control Points"

// persistedPoint is one element of the "Control Points" array
type persistedPoint struct {
	Opacity  int `json:"Opacity"`
	IsoValue int `json:"IsoValue"`
	Style    int `json:"Style"`
}

// rawPoint uses pointers so missing fields can be told apart from zeros
type rawPoint struct {
	Opacity  *int `json:"Opacity"`
	IsoValue *int `json:"IsoValue"`
	Style    *int `json:"Style"`
}

// LoadReport summarizes a Load
type LoadReport struct {
	// Loaded is the number of entries added to the engine
	Loaded int

	// Skipped is the number of malformed entries ignored
	Skipped int
}

// Save writes the control points as indented JSON in ordinal order. Only
// opacity, isovalue and style are stored.
func Save(w io.Writer, e *Engine) error {
	doc := map[string][]persistedPoint{
		documentKey: make([]persistedPoint, 0, len(e.points)),
	}
	for i, cp := range e.points {
		doc[documentKey] = append(doc[documentKey], persistedPoint{
			Opacity:  cp.Opacity(),
			IsoValue: cp.IsoValue,
			Style:    e.styles[i],
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("transfer: encoding control points: %w", err)
	}
	return nil
}

// Load replaces the engine's control points with the ones in r.
//
// Each entry is added as a grey point (opacity in every channel) in file
// order, so the collision rules of Add apply. Malformed entries are skipped
// and logged. If the document itself is malformed, or fewer than two points
// survive, the engine is left untouched.
func Load(r io.Reader, e *Engine) (LoadReport, error) {
	var report LoadReport

	var doc map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return report, fmt.Errorf("transfer: decoding document: %w", err)
	}

	body, ok := doc[documentKey]
	if !ok {
		return report, fmt.Errorf("transfer: missing %q array", documentKey)
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(body, &entries); err != nil {
		return report, fmt.Errorf("transfer: %q is not an array: %w", documentKey, err)
	}

	scratch := New(WithInterpolation(e.method), WithLogger(e.log))
	for i, raw := range entries {
		p, err := decodePoint(raw)
		if err != nil {
			e.log.Warn("skipping control point", "entry", i, "error", err)
			report.Skipped++
			continue
		}

		pos, err := scratch.insert(greyPoint(p.Opacity, p.IsoValue), p.Style)
		if err != nil {
			e.log.Warn("skipping control point", "entry", i, "error", err)
			report.Skipped++
			continue
		}
		e.log.Debug("loaded control point", "entry", i, "ordinal", pos, "isoValue", p.IsoValue, "style", p.Style)
		report.Loaded++
	}

	if scratch.Len() < 2 {
		return report, fmt.Errorf("%w: file holds %d usable entries", ErrTooFewPoints, scratch.Len())
	}

	e.replace(scratch)
	return report, nil
}

func decodePoint(raw json.RawMessage) (persistedPoint, error) {
	var rp rawPoint
	if err := json.Unmarshal(raw, &rp); err != nil {
		return persistedPoint{}, err
	}

	switch {
	case rp.Opacity == nil:
		return persistedPoint{}, errors.New("missing Opacity")
	case rp.IsoValue == nil:
		return persistedPoint{}, errors.New("missing IsoValue")
	case rp.Style == nil:
		return persistedPoint{}, errors.New("missing Style")
	case !ValidStyle(*rp.Style):
		return persistedPoint{}, fmt.Errorf("%w: %d", ErrInvalidStyle, *rp.Style)
	}

	return persistedPoint{Opacity: *rp.Opacity, IsoValue: *rp.IsoValue, Style: *rp.Style}, nil
}

// SaveFile writes the transfer function to path.
func SaveFile(path string, e *Engine) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("transfer: creating %s: %w", path, err)
	}

	if err := Save(f, e); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("transfer: closing %s: %w", path, err)
	}

	e.log.Info("transfer function saved", "path", path, "points", e.Len())
	return nil
}

// LoadFile reads the transfer function at path into e.
func LoadFile(path string, e *Engine) (LoadReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return LoadReport{}, fmt.Errorf("transfer: opening %s: %w", path, err)
	}
	defer f.Close()

	report, err := Load(f, e)
	if err != nil {
		return report, fmt.Errorf("transfer: loading %s: %w", path, err)
	}

	e.log.Info("transfer function loaded", "path", path, "points", report.Loaded, "skipped", report.Skipped)
	return report, nil
}
