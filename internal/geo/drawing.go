package geo

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"
)

var (
	ErrInvalidGeoJSON  = errors.New("invalid geojson")
	ErrFeatureNotFound = errors.New("feature not found")
	ErrNoGeometry      = errors.New("feature has no geometry")
)

const squareMetersPerHectare = 10_000

// Drawing holds the shapes drawn on the map. Every mutation re-serializes the whole
// collection and passes it to onChange
type Drawing struct {
	fc       *geojson.FeatureCollection
	onChange func(geojson string)
	mu       sync.Mutex
}

func NewDrawing(onChange func(geojson string)) *Drawing {
	if onChange == nil {
		onChange = func(string) {}
	}
	return &Drawing{
		fc:       geojson.NewFeatureCollection(),
		onChange: onChange,
	}
}

// Create adds a shape and returns its id. Features without an id get a random one
func (d *Drawing) Create(f *geojson.Feature) (string, error) {
	if f == nil || f.Geometry == nil {
		return "", ErrNoGeometry
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	id := featureID(f)
	if id == "" {
		id = uuid.NewString()
		f.ID = id
	}
	d.fc.Append(f)

	return id, d.emitLocked()
}

// Edit replaces the geometry of a shape
func (d *Drawing) Edit(id string, geometry orb.Geometry) error {
	if geometry == nil {
		return ErrNoGeometry
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	f := d.findLocked(id)
	if f == nil {
		return fmt.Errorf("%w: %s", ErrFeatureNotFound, id)
	}
	f.Geometry = geometry

	return d.emitLocked()
}

// Delete removes the listed shapes, unknown ids are ignored
func (d *Drawing) Delete(ids ...string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	remove := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		remove[id] = struct{}{}
	}

	kept := d.fc.Features[:0]
	for _, f := range d.fc.Features {
		if _, ok := remove[featureID(f)]; !ok {
			kept = append(kept, f)
		}
	}
	d.fc.Features = kept

	return d.emitLocked()
}

// Load replaces the collection with an externally drawn one
func (d *Drawing) Load(raw string) error {
	fc, err := ParseFeatureCollection(raw)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, f := range fc.Features {
		if featureID(f) == "" {
			f.ID = uuid.NewString()
		}
	}
	d.fc = fc

	return d.emitLocked()
}

func (d *Drawing) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.fc.Features)
}

func (d *Drawing) GeoJSON() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.marshalLocked()
}

// AreaHectares is the geodesic area of all polygons in the drawing
func (d *Drawing) AreaHectares() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	var total float64
	for _, f := range d.fc.Features {
		total += math.Abs(orbgeo.Area(f.Geometry))
	}
	return total / squareMetersPerHectare
}

func (d *Drawing) emitLocked() error {
	data, err := d.marshalLocked()
	if err != nil {
		return err
	}
	d.onChange(data)
	return nil
}

func (d *Drawing) marshalLocked() (string, error) {
	data, err := d.fc.MarshalJSON()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (d *Drawing) findLocked(id string) *geojson.Feature {
	for _, f := range d.fc.Features {
		if featureID(f) == id {
			return f
		}
	}
	return nil
}

// ParseFeatureCollection validates raw as a GeoJSON feature collection
func ParseFeatureCollection(raw string) (*geojson.FeatureCollection, error) {
	fc, err := geojson.UnmarshalFeatureCollection([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidGeoJSON, err)
	}
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("%w: unexpected type %q", ErrInvalidGeoJSON, fc.Type)
	}
	for i, f := range fc.Features {
		if f.Geometry == nil {
			return nil, fmt.Errorf("%w: feature %d", ErrNoGeometry, i)
		}
	}
	return fc, nil
}

func featureID(f *geojson.Feature) string {
	switch id := f.ID.(type) {
	case nil:
		return ""
	case string:
		return id
	default:
		return fmt.Sprint(id)
	}
}
