package model

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// FieldReader is just a simple reader for basic file formats.
type FieldReader struct {
	Pos    int
	Fields []string
}

// NewFieldReader constructs a new field reader around the given data
func NewFieldReader(data string) *FieldReader {
	return &FieldReader{0, strings.Fields(data)}
}

// Read returns the next space-delimited field/token
func (fr *FieldReader) Read() (string, error) {
	if fr.Pos >= len(fr.Fields) {
		return "", io.EOF
	}
	p := fr.Pos
	fr.Pos++
	return fr.Fields[p], nil
}

// ReadFloat reads the next token as a float
func (fr *FieldReader) ReadFloat() (float64, error) {
	s, err := fr.Read()
	if err != nil {
		return 0, err
	}

	return strconv.ParseFloat(s, 64)
}

// ReadAllFloats reads every remaining token as a float
func (fr *FieldReader) ReadAllFloats() ([]float64, error) {
	vals := make([]float64, 0, len(fr.Fields)-fr.Pos)
	for {
		f, err := fr.ReadFloat()
		if err == io.EOF {
			return vals, nil
		}
		if err != nil {
			return nil, errors.Wrapf(err, "Bad value at field %d", fr.Pos)
		}
		vals = append(vals, f)
	}
}

// yamlModel is the on-disk layout of a model file
type yamlModel struct {
	Type     string             `yaml:"type"`
	Name     string             `yaml:"name"`
	Data     []float64          `yaml:"data"`
	DataFile string             `yaml:"data_file"`
	Prior    Prior              `yaml:"prior"`
	Mixture  *Mixture           `yaml:"mixture"`
	Initial  map[string]float64 `yaml:"initial"`
}

// YAMLReader reads model files. Observed data is either inline (data) or in
// a whitespace delimited file (data_file), but not both.
type YAMLReader struct{}

// ReadModel implements Reader
func (r YAMLReader) ReadModel(data []byte, baseDir string) (*Model, error) {
	var ym yamlModel
	if err := yaml.Unmarshal(data, &ym); err != nil {
		return nil, errors.Wrap(err, "Could not decode YAML model")
	}

	obs := ym.Data
	if len(ym.DataFile) > 0 {
		if len(obs) > 0 {
			return nil, InvalidConfigf("Model specifies both data and data_file")
		}

		fn := ym.DataFile
		if !filepath.IsAbs(fn) {
			fn = filepath.Join(baseDir, fn)
		}
		raw, err := os.ReadFile(fn)
		if err != nil {
			return nil, errors.Wrapf(err, "Could not READ data file %s", fn)
		}
		obs, err = NewFieldReader(string(raw)).ReadAllFloats()
		if err != nil {
			return nil, errors.Wrapf(err, "Could not PARSE data file %s", fn)
		}
	}

	m := &Model{
		Type:    strings.ToUpper(ym.Type),
		Name:    ym.Name,
		Data:    obs,
		Prior:   ym.Prior,
		Mixture: ym.Mixture,
		Initial: ym.Initial,
	}
	if m.Initial == nil {
		m.Initial = make(map[string]float64)
	}

	return m, nil
}
