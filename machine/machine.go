package machine

import (
	"fmt"

	"github.com/virtlab/gom/device"
	"github.com/virtlab/gom/hooking"
	"github.com/virtlab/gom/object"
	"github.com/virtlab/gom/property"
	"github.com/virtlab/gom/resettable"
)

// A Machine owns the devices built from one configuration.
type Machine struct {
	name       string
	devices    []device.Dev
	index      map[string]device.Dev
	controller resettable.Controller
}

// Build instantiates, configures, and realizes every device in cfg. It
// plays the host's dispatch role: it acquires the big lock around the
// whole construction sequence.
func Build(cfg *Config) (*Machine, error) {
	m := &Machine{
		name:  cfg.Name,
		index: make(map[string]device.Dev),
	}

	lk := object.BigLock()
	lk.Lock()
	defer lk.Unlock()

	for _, dc := range cfg.Devices {
		dev, err := m.buildDevice(dc)
		if err != nil {
			return nil, err
		}

		m.devices = append(m.devices, dev)
		m.index[dc.ID] = dev
		m.controller.Register(dev)
	}

	for _, dev := range m.devices {
		if err := device.Realize(dev); err != nil {
			return nil, fmt.Errorf("machine: realizing %s: %w",
				dev.Name(), err)
		}
	}

	return m, nil
}

func (m *Machine) buildDevice(dc DeviceConfig) (device.Dev, error) {
	t, ok := object.Lookup(dc.Type)
	if !ok {
		return nil, fmt.Errorf("machine: unknown device type %q", dc.Type)
	}

	if t.Abstract {
		return nil, fmt.Errorf("machine: type %q is abstract", dc.Type)
	}

	obj := object.New(dc.Type)

	dev, ok := obj.(device.Dev)
	if !ok {
		return nil, fmt.Errorf("machine: type %q is not a device type",
			dc.Type)
	}

	dev.ObjectBase().SetName(dc.ID)

	for name, raw := range dc.Properties {
		v, err := convertValue(dev, name, raw)
		if err != nil {
			return nil, fmt.Errorf("machine: device %s: %w", dc.ID, err)
		}

		dev.DeviceState().SetProp(name, v)
	}

	return dev, nil
}

// convertValue maps a YAML scalar onto the representation the property
// descriptor expects, so that assignment below cannot fail.
func convertValue(dev device.Dev, name string, raw any) (any, error) {
	p, ok := device.ClassOf(dev).Props.Find(name)
	if !ok {
		return nil, fmt.Errorf("unknown property %q on type %s",
			name, dev.ObjectBase().Type().Name)
	}

	switch p.Info {
	case property.Bool, property.Bit:
		if b, ok := raw.(bool); ok {
			return b, nil
		}
	case property.UInt8, property.UInt16, property.UInt32, property.UInt64:
		if n, ok := raw.(int); ok && n >= 0 {
			return n, nil
		}
	case property.Int32:
		if n, ok := raw.(int); ok {
			return int32(n), nil
		}
	case property.String:
		if s, ok := raw.(string); ok {
			return s, nil
		}
	default:
		return nil, fmt.Errorf("property %q (%s) cannot be set from a config",
			name, p.Info.Name)
	}

	return nil, fmt.Errorf("property %q expects %s, got %T",
		name, p.Info.Name, raw)
}

// Name returns the machine name from the configuration.
func (m *Machine) Name() string { return m.name }

// Devices returns every built device, in configuration order.
func (m *Machine) Devices() []device.Dev { return m.devices }

// Objects returns the devices as plain objects.
func (m *Machine) Objects() []object.Object {
	objs := make([]object.Object, 0, len(m.devices))
	for _, dev := range m.devices {
		objs = append(objs, dev)
	}

	return objs
}

// Device returns the device with the given configured id.
func (m *Machine) Device(id string) (device.Dev, bool) {
	dev, ok := m.index[id]

	return dev, ok
}

// Reset drives a full three-phase reset over every device, taking the
// big lock for the duration.
func (m *Machine) Reset(kind resettable.Kind) {
	lk := object.BigLock()
	lk.Lock()
	defer lk.Unlock()

	m.controller.ResetAll(kind)
}

// AttachHook registers a hook on every device of the machine.
func (m *Machine) AttachHook(h hooking.Hook) {
	for _, dev := range m.devices {
		dev.AcceptHook(h)
	}
}
