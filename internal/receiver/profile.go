package receiver

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tdoa-platform/core/internal/devices"
)

// profileNamePattern matches the only characters allowed in a profile name;
// anything else (path separators in particular) is rejected before it ever
// reaches the filesystem.
var profileNamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// streamingProfile and parametersProfile mirror the profile file's on-disk
// JSON shape exactly; json.Decoder.DisallowUnknownFields rejects anything
// outside this schema.
type streamingProfile struct {
	CenterFrequency float64 `json:"centerFrequency"`
	Bandwidth       float64 `json:"bandwidth"`
	SampleRate      float64 `json:"sampleRate"`
	Format          int     `json:"format"`
	EnableTimeStamp bool    `json:"enableTimeStamp"`
	BufferSize      int     `json:"bufferSize"`
}

type parametersProfile struct {
	Decimation      int     `json:"decimation"`
	Port1Mode       int     `json:"port1Mode"`
	Port2Mode       int     `json:"port2Mode"`
	GainMode        int     `json:"gainMode"`
	RFGain          int     `json:"rfGain"`
	AttenuationMode int     `json:"attenuationMode"`
	RFFilterMode    int     `json:"rfFilterMode"`
	ReferenceLevel  float64 `json:"referenceLevel"`
}

type profileFile struct {
	Streaming  streamingProfile  `json:"streaming"`
	Parameters parametersProfile `json:"parameters"`
}

func validateProfileName(name string) error {
	if name == "" || !profileNamePattern.MatchString(name) {
		return opErr("Profile", devices.InvalidParameter, nil)
	}
	return nil
}

func profilePath(dir, name string) string {
	return filepath.Join(dir, name+".json")
}

// saveProfile writes the given params/config pair to
// <dir>/<name>.json, pretty-printed to match the original tool's output.
func saveProfile(dir, name string, params BB60Params, cfg devices.StreamingConfig) error {
	if err := validateProfileName(name); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return opErr("SaveProfile", devices.InternalError, err)
	}

	doc := profileFile{
		Streaming: streamingProfile{
			CenterFrequency: cfg.CenterFreqHz,
			Bandwidth:       cfg.BandwidthHz,
			SampleRate:      cfg.EffectiveSampleRate,
			Format:          int(cfg.SampleFormat),
			EnableTimeStamp: cfg.TimeStampEnabled,
			BufferSize:      cfg.BufferCapacity,
		},
		Parameters: parametersProfile{
			Decimation:      params.Decimation,
			Port1Mode:       int(params.Port1Mode),
			Port2Mode:       int(params.Port2Mode),
			GainMode:        int(params.GainMode),
			RFGain:          params.RFGain,
			AttenuationMode: int(params.AttenuationMode),
			RFFilterMode:    int(params.RFFilterMode),
			ReferenceLevel:  params.ReferenceLevel,
		},
	}

	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return opErr("SaveProfile", devices.InternalError, err)
	}
	if err := os.WriteFile(profilePath(dir, name), data, 0o644); err != nil {
		return opErr("SaveProfile", devices.InternalError, err)
	}
	return nil
}

// loadProfile reads and validates <dir>/<name>.json, rejecting unknown
// top-level or nested fields.
func loadProfile(dir, name string) (BB60Params, devices.StreamingConfig, error) {
	if err := validateProfileName(name); err != nil {
		return BB60Params{}, devices.StreamingConfig{}, err
	}

	f, err := os.Open(profilePath(dir, name))
	if err != nil {
		return BB60Params{}, devices.StreamingConfig{}, opErr("LoadProfile", devices.InvalidParameter, err)
	}
	defer f.Close()

	var doc profileFile
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return BB60Params{}, devices.StreamingConfig{}, opErr("LoadProfile", devices.InvalidParameter, err)
	}

	params := BB60Params{
		Decimation:      doc.Parameters.Decimation,
		Port1Mode:       Port1Mode(doc.Parameters.Port1Mode),
		Port2Mode:       Port2Mode(doc.Parameters.Port2Mode),
		GainMode:        GainMode(doc.Parameters.GainMode),
		RFGain:          doc.Parameters.RFGain,
		AttenuationMode: Attenuation(doc.Parameters.AttenuationMode),
		RFFilterMode:    RFFilterMode(doc.Parameters.RFFilterMode),
		ReferenceLevel:  doc.Parameters.ReferenceLevel,
	}
	cfg := devices.StreamingConfig{
		CenterFreqHz:        doc.Streaming.CenterFrequency,
		BandwidthHz:         doc.Streaming.Bandwidth,
		SampleFormat:        devices.SampleFormat(doc.Streaming.Format),
		Decimation:          doc.Parameters.Decimation,
		BufferCapacity:      doc.Streaming.BufferSize,
		TimeStampEnabled:    doc.Streaming.EnableTimeStamp,
		EffectiveSampleRate: doc.Streaming.SampleRate,
	}

	if err := validateParams(params); err != nil {
		return BB60Params{}, devices.StreamingConfig{}, err
	}
	if err := validateStreamingConfig(cfg, params.Decimation); err != nil {
		return BB60Params{}, devices.StreamingConfig{}, err
	}
	return params, cfg, nil
}

// deleteProfile removes <dir>/<name>.json.
func deleteProfile(dir, name string) error {
	if err := validateProfileName(name); err != nil {
		return err
	}
	if err := os.Remove(profilePath(dir, name)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return opErr("DeleteProfile", devices.InvalidParameter, err)
		}
		return opErr("DeleteProfile", devices.InternalError, err)
	}
	return nil
}

// listProfiles returns the names (without extension) of every profile in
// dir, sorted by file name (os.ReadDir returns entries in that order).
func listProfiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, opErr("ListProfiles", devices.InternalError, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	return names, nil
}
