package presence

import (
	"errors"
	"sync"

	"github.com/bluetuith-org/audio-presence/api/audio"
)

var errBackend = errors.New("backend failure")

type fakeService struct {
	level   audio.Level
	devices []audio.OutputDevice

	wiredOn     bool
	bluetoothOn bool

	levelErr  error
	listErr   error
	legacyErr error

	enumerated  int
	legacyCalls int

	mu sync.Mutex
}

type fakeHandle struct {
	svc audio.Service
	err error
}

func (h *fakeHandle) AudioService() (audio.Service, error) {
	return h.svc, h.err
}

func (f *fakeService) Level() (audio.Level, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.level, f.levelErr
}

func (f *fakeService) OutputDevices() ([]audio.OutputDevice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.enumerated++
	if f.listErr != nil {
		return nil, f.listErr
	}

	return f.devices, nil
}

func (f *fakeService) WiredHeadsetOn() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.legacyCalls++
	return f.wiredOn, f.legacyErr
}

func (f *fakeService) BluetoothA2DPOn() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.legacyCalls++
	return f.bluetoothOn, f.legacyErr
}

func (f *fakeService) set(fn func(f *fakeService)) {
	f.mu.Lock()
	defer f.mu.Unlock()

	fn(f)
}

func (f *fakeService) counts() (enumerated, legacy int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.enumerated, f.legacyCalls
}
