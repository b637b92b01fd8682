package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/VandersypenQutech/qtt/internal/domain"
)

// JobFile is the on-disk form of a scan job. Axis parameters are
// textual references ("P1", "dac.dac3") or inline vector terms.
type JobFile struct {
	ScanType string         `yaml:"scantype"`
	Sweep    AxisFile       `yaml:"sweep"`
	Step     *AxisFile      `yaml:"step"`
	Channels []int          `yaml:"channels"`
	NAverage int            `yaml:"naverage"`
	WaitTime time.Duration  `yaml:"wait_time"`
	Label    string         `yaml:"label"`
	Metadata map[string]any `yaml:"metadata"`
}

type AxisFile struct {
	Param  string        `yaml:"param"`
	Vector []VectorFile  `yaml:"vector"`
	Start  float64       `yaml:"start"`
	End    float64       `yaml:"end"`
	Range  float64       `yaml:"range"`
	Step   float64       `yaml:"step"`
	Wait   time.Duration `yaml:"wait"`
	Period time.Duration `yaml:"period"`
}

type VectorFile struct {
	Gate   string  `yaml:"gate"`
	Coeff  float64 `yaml:"coeff"`
	Offset float64 `yaml:"offset"`
}

// LoadJob reads a scan job from a YAML file.
func LoadJob(path string) (*domain.ScanJob, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file JobFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, err
	}
	return file.ToJob()
}

// ToJob converts the file form into a validated scan job.
func (f *JobFile) ToJob() (*domain.ScanJob, error) {
	sweep, err := f.Sweep.toAxis()
	if err != nil {
		return nil, fmt.Errorf("sweep axis: %w", err)
	}

	job := &domain.ScanJob{
		ScanType:          domain.ScanType(f.ScanType),
		Sweep:             sweep,
		MeasureChannels:   f.Channels,
		NAverage:          f.NAverage,
		WaitTimeStartScan: f.WaitTime,
		DatasetLabel:      f.Label,
		Metadata:          f.Metadata,
	}
	if f.Step != nil {
		step, err := f.Step.toAxis()
		if err != nil {
			return nil, fmt.Errorf("step axis: %w", err)
		}
		job.Step = &step
	}

	if err := job.Validate(); err != nil {
		return nil, err
	}
	return job, nil
}

func (a *AxisFile) toAxis() (domain.AxisSpec, error) {
	spec := domain.AxisSpec{
		Start:  a.Start,
		End:    a.End,
		Range:  a.Range,
		Step:   a.Step,
		Wait:   a.Wait,
		Period: a.Period,
	}
	switch {
	case len(a.Vector) > 0:
		terms := make([]domain.VectorTerm, len(a.Vector))
		for i, t := range a.Vector {
			if t.Gate == "" {
				return domain.AxisSpec{}, fmt.Errorf("vector term %d has no gate", i)
			}
			terms[i] = domain.VectorTerm{Gate: t.Gate, Coeff: t.Coeff, Offset: t.Offset}
		}
		spec.Param = domain.ParamVector{Terms: terms}
	case a.Param != "":
		spec.Param = domain.ParseParamRef(a.Param)
	default:
		return domain.AxisSpec{}, fmt.Errorf("axis has neither param nor vector terms")
	}
	return spec, nil
}
