package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	_ "github.com/gogpu/wgpu/hal/allbackends" // platform HAL backends
)

// ErrNoAdapter is returned when a backend exposes no adapters.
var ErrNoAdapter = errors.New("gpu: no adapters found")

// Device is a HAL device and queue for a Pipeline. Devices from Open and
// OpenBackend own their HAL objects; Shared devices borrow a window's.
type Device struct {
	Device hal.Device
	Queue  hal.Queue
	Name   string

	instance hal.Instance
	owned    bool
}

// backendOrder lists the hardware backends Open tries, best first.
var backendOrder = []gputypes.Backend{
	gputypes.BackendVulkan,
	gputypes.BackendMetal,
	gputypes.BackendDX12,
	gputypes.BackendGL,
}

// Open opens a device on the first registered hardware backend that
// has an adapter.
func Open() (*Device, error) {
	var errs []error
	for _, variant := range backendOrder {
		backend, ok := hal.GetBackend(variant)
		if !ok {
			continue
		}
		d, err := OpenBackend(backend)
		if err == nil {
			return d, nil
		}
		errs = append(errs, fmt.Errorf("%v: %w", variant, err))
	}
	if len(errs) == 0 {
		return nil, fmt.Errorf("gpu: no hardware backend registered")
	}
	return nil, errors.Join(errs...)
}

// OpenBackend opens a device on backend, preferring a discrete or
// integrated GPU over other adapter types.
func OpenBackend(backend hal.Backend) (*Device, error) {
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("open device: %w", err)
	}
	slogger().Info("tear gpu: device opened", "adapter", selected.Info.Name)
	return &Device{
		Device:   openDev.Device,
		Queue:    openDev.Queue,
		Name:     selected.Info.Name,
		instance: instance,
		owned:    true,
	}, nil
}

// Shared borrows the HAL device of a window. The provider either exposes
// HalDevice() any and HalQueue() any itself, or is a
// gpucontext.DeviceProvider whose Device() wraps the HAL objects.
func Shared(provider any) (*Device, error) {
	type anyProvider interface {
		HalDevice() any
		HalQueue() any
	}
	type halWrapper interface {
		HalDevice() hal.Device
		HalQueue() hal.Queue
	}

	var device hal.Device
	var queue hal.Queue
	switch p := provider.(type) {
	case anyProvider:
		device, _ = p.HalDevice().(hal.Device)
		queue, _ = p.HalQueue().(hal.Queue)
	case gpucontext.DeviceProvider:
		if w, ok := p.Device().(halWrapper); ok {
			device, queue = w.HalDevice(), w.HalQueue()
		}
	default:
		return nil, fmt.Errorf("gpu: provider %T does not expose HAL types", provider)
	}
	if device == nil || queue == nil {
		return nil, fmt.Errorf("gpu: provider %T has no HAL device", provider)
	}
	slogger().Debug("tear gpu: using shared device")
	return &Device{Device: device, Queue: queue, Name: "shared"}, nil
}

// Close waits for the device to go idle and destroys what Open created.
// Shared devices are left alone. Safe to call more than once.
func (d *Device) Close() {
	if d == nil || d.Device == nil {
		return
	}
	if d.owned {
		if err := d.Device.WaitIdle(); err != nil {
			slogger().Warn("tear gpu: wait idle", "err", err)
		}
		d.Device.Destroy()
		if d.instance != nil {
			d.instance.Destroy()
		}
	}
	d.Device, d.Queue, d.instance = nil, nil, nil
}
