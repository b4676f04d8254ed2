package receiver

import (
	"context"
	"errors"
	"sync"

	"github.com/tdoa-platform/core/internal/devices"
	"github.com/tdoa-platform/core/internal/streaming"
)

func init() {
	devices.Register("bb60c", func() devices.Device { return NewReceiver("") })
}

// defaultProfileDir matches the original tool's relative profile location;
// callers normally override it via config.
const defaultProfileDir = "config/bb60c_profiles"

// Receiver implements devices.Device and streaming.Fetcher for the
// BB60 family, bridging the generic acquisition engine to the simulated
// vendor ABI.
type Receiver struct {
	mu         sync.Mutex
	abi        *vendorABI
	engine     *streaming.Engine
	params     BB60Params
	streamCfg  devices.StreamingConfig
	profileDir string
	active     bool // true while a stream is running
}

// NewReceiver constructs a closed, unconfigured receiver. profileDir, if
// empty, defaults to defaultProfileDir.
func NewReceiver(profileDir string) *Receiver {
	if profileDir == "" {
		profileDir = defaultProfileDir
	}
	return &Receiver{
		abi:        newVendorABI(),
		params:     defaultParams(),
		profileDir: profileDir,
	}
}

func (r *Receiver) capabilities() devices.Capabilities {
	return devices.Capabilities{
		FreqMinHz:              9.0e3,
		FreqMaxHz:              6.0e9,
		MaxBandwidthHz:         27.0e6,
		MaxSampleRateHz:        maxSampleRateHz,
		SupportedSampleFormats: []devices.SampleFormat{devices.FormatF32C, devices.FormatI16C},
		TimeStampingSupported:  true,
		TriggerIOSupported:     true,
	}
}

func toDeviceModel(m DeviceModelName) devices.DeviceModel {
	switch m {
	case ModelBB60A:
		return devices.ModelBB60A
	case ModelBB60C:
		return devices.ModelBB60C
	case ModelBB60D:
		return devices.ModelBB60D
	default:
		return devices.ModelNone
	}
}

// Enumerate lists the statically known simulated inventory; a real vendor
// ABI would query USB enumeration here instead.
func (r *Receiver) Enumerate(ctx context.Context) ([]devices.DeviceInfo, error) {
	infos := make([]devices.DeviceInfo, 0, len(knownSerials))
	for _, k := range knownSerials {
		infos = append(infos, devices.DeviceInfo{
			Serial:       k.serial,
			Model:        toDeviceModel(k.model),
			Firmware:     k.firmware,
			Capabilities: r.capabilities(),
		})
	}
	return infos, nil
}

// Open blocks for the vendor handshake latency (cancellable via ctx) and
// issues a preset-reset so reported state matches documented defaults.
func (r *Receiver) Open(ctx context.Context, serial string) error {
	r.mu.Lock()
	if r.abi.isOpen() {
		r.mu.Unlock()
		return opErr("Open", devices.InvalidState, nil)
	}
	r.mu.Unlock()

	if err := r.abi.open(ctx, serial); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return opErr("Open", devices.InternalError, err)
		}
		return opErr("Open", devices.DeviceNotFound, err)
	}

	r.mu.Lock()
	r.params = defaultParams()
	r.streamCfg = devices.StreamingConfig{}
	r.mu.Unlock()
	return nil
}

// Close stops any active stream and releases the device.
func (r *Receiver) Close() error {
	r.mu.Lock()
	if !r.abi.isOpen() {
		r.mu.Unlock()
		return opErr("Close", devices.DeviceNotOpen, nil)
	}
	engine := r.engine
	active := r.active
	r.active = false
	r.mu.Unlock()

	if active && engine != nil {
		_ = engine.Stop()
	}
	if err := r.abi.close(); err != nil {
		return opErr("Close", devices.HardwareError, err)
	}
	return nil
}

func (r *Receiver) IsOpen() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.abi.isOpen()
}

func (r *Receiver) Info() (devices.DeviceInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.abi.isOpen() {
		return devices.DeviceInfo{}, opErr("Info", devices.DeviceNotOpen, nil)
	}
	return devices.DeviceInfo{
		Serial:       r.abi.serial,
		Model:        toDeviceModel(r.abi.model),
		Firmware:     r.abi.firmware,
		Capabilities: r.capabilities(),
	}, nil
}

// ApplyParams validates and stores a BB60Params bundle. It fails with
// InvalidState while a stream is running.
func (r *Receiver) ApplyParams(params devices.DeviceParams) error {
	bb60, ok := params.(BB60Params)
	if !ok {
		return opErr("ApplyParams", devices.InvalidParameter, nil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.abi.isOpen() {
		return opErr("ApplyParams", devices.DeviceNotOpen, nil)
	}
	if r.active {
		return opErr("ApplyParams", devices.InvalidState, nil)
	}
	if err := validateParams(bb60); err != nil {
		return err
	}
	r.params = bb60
	return nil
}

// ConfigureStream validates, stores, and applies a stream configuration,
// deriving EffectiveSampleRate from the currently applied decimation.
func (r *Receiver) ConfigureStream(cfg devices.StreamingConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.abi.isOpen() {
		return opErr("ConfigureStream", devices.DeviceNotOpen, nil)
	}
	if r.active {
		return opErr("ConfigureStream", devices.InvalidState, nil)
	}
	if err := validateStreamingConfig(cfg, r.params.Decimation); err != nil {
		return err
	}

	cfg.Decimation = r.params.Decimation
	cfg.EffectiveSampleRate = maxSampleRateHz / float64(r.params.Decimation)
	r.streamCfg = cfg
	r.abi.configureIQ(cfg.CenterFreqHz, cfg.Decimation)
	r.engine = streaming.NewEngine(cfg)
	return nil
}

// StartStream launches the acquisition engine against this receiver's own
// Fetch method.
func (r *Receiver) StartStream(cb devices.Callback) error {
	r.mu.Lock()
	if !r.abi.isOpen() {
		r.mu.Unlock()
		return opErr("StartStream", devices.DeviceNotOpen, nil)
	}
	if r.active {
		r.mu.Unlock()
		return opErr("StartStream", devices.InvalidState, nil)
	}
	if r.engine == nil {
		r.mu.Unlock()
		return opErr("StartStream", devices.InvalidState, nil)
	}
	engine := r.engine
	r.active = true
	r.mu.Unlock()

	if err := engine.Start(r, cb); err != nil {
		r.mu.Lock()
		r.active = false
		r.mu.Unlock()
		return opErr("StartStream", devices.InternalError, err)
	}
	return nil
}

// StopStream halts the acquisition engine; it is an error to call when no
// stream is running.
func (r *Receiver) StopStream() error {
	r.mu.Lock()
	if !r.active || r.engine == nil {
		r.mu.Unlock()
		return opErr("StopStream", devices.InvalidState, nil)
	}
	engine := r.engine
	r.mu.Unlock()

	if err := engine.Stop(); err != nil {
		return opErr("StopStream", devices.InternalError, err)
	}

	r.mu.Lock()
	r.active = false
	r.mu.Unlock()
	return nil
}

// Metrics returns the current acquisition engine snapshot, or a zero value
// if no stream has ever been configured.
func (r *Receiver) Metrics() devices.StreamingMetrics {
	r.mu.Lock()
	engine := r.engine
	r.mu.Unlock()
	if engine == nil {
		return devices.StreamingMetrics{}
	}
	return engine.Metrics()
}

// Reset restores default parameters and clears the stream configuration.
// It fails with InvalidState while a stream is running.
func (r *Receiver) Reset() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.abi.isOpen() {
		return opErr("Reset", devices.DeviceNotOpen, nil)
	}
	if r.active {
		return opErr("Reset", devices.InvalidState, nil)
	}
	r.abi.reset()
	r.params = defaultParams()
	r.streamCfg = devices.StreamingConfig{}
	r.engine = nil
	return nil
}

// Fetch implements streaming.Fetcher, translating the vendor ABI's closed
// sentinel into streaming.ErrDeviceClosed for the engine's producer loop.
func (r *Receiver) Fetch(buf *devices.IQBuffer) (int, bool, error) {
	var n int
	var err error
	switch buf.Format {
	case devices.FormatI16C:
		n, err = r.abi.fetchInt16(buf.Int16Samples)
	default:
		n, err = r.abi.fetchFloat32(buf.Float32Samples)
	}
	if errors.Is(err, errVendorClosed) {
		return 0, false, streaming.ErrDeviceClosed
	}
	return n, false, err
}

// OptimizeFor applies a named use-case preset in one atomic step,
// inheriting the receiver's currently configured center frequency.
func (r *Receiver) OptimizeFor(useCase UseCase) error {
	r.mu.Lock()
	if !r.abi.isOpen() {
		r.mu.Unlock()
		return opErr("OptimizeFor", devices.DeviceNotOpen, nil)
	}
	centerFreq := r.streamCfg.CenterFreqHz
	r.mu.Unlock()

	p, ok := resolvePreset(useCase, centerFreq)
	if !ok {
		return opErr("OptimizeFor", devices.InvalidParameter, nil)
	}
	if err := r.ApplyParams(p.params); err != nil {
		return err
	}
	return r.ConfigureStream(p.config)
}

// SaveProfile serializes the currently applied params/config to
// <profileDir>/<name>.json.
func (r *Receiver) SaveProfile(name string) error {
	r.mu.Lock()
	params, cfg := r.params, r.streamCfg
	dir := r.profileDir
	r.mu.Unlock()
	return saveProfile(dir, name, params, cfg)
}

// LoadProfile validates and re-applies a saved profile; the device must be
// open and idle.
func (r *Receiver) LoadProfile(name string) error {
	r.mu.Lock()
	if !r.abi.isOpen() {
		r.mu.Unlock()
		return opErr("LoadProfile", devices.DeviceNotOpen, nil)
	}
	dir := r.profileDir
	r.mu.Unlock()

	params, cfg, err := loadProfile(dir, name)
	if err != nil {
		return err
	}
	if err := r.ApplyParams(params); err != nil {
		return err
	}
	return r.ConfigureStream(cfg)
}

// DeleteProfile removes a saved profile; it does not require the device to
// be open.
func (r *Receiver) DeleteProfile(name string) error {
	r.mu.Lock()
	dir := r.profileDir
	r.mu.Unlock()
	return deleteProfile(dir, name)
}

// ListProfiles returns every saved profile name; it does not require the
// device to be open.
func (r *Receiver) ListProfiles() ([]string, error) {
	r.mu.Lock()
	dir := r.profileDir
	r.mu.Unlock()
	return listProfiles(dir)
}
