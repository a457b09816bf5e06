// Package monitoring turns a built machine into an HTTP server that
// exposes the type registry and the device tree for external inspection.
package monitoring

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/pkg/browser"

	"github.com/virtlab/gom/chardev"
	"github.com/virtlab/gom/device"
	"github.com/virtlab/gom/machine"
	"github.com/virtlab/gom/object"
)

// Monitor serves the introspection API for one machine.
type Monitor struct {
	machine    *machine.Machine
	portNumber int
	listener   net.Listener
	router     *mux.Router
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port the server listens on. Port 0 picks a
// random free port.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	m.portNumber = portNumber

	return m
}

// RegisterMachine registers the machine to serve.
func (m *Monitor) RegisterMachine(mach *machine.Machine) {
	m.machine = mach
}

func (m *Monitor) buildRouter() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/types", m.handleTypes)
	r.HandleFunc("/api/devices", m.handleDevices)
	r.HandleFunc("/api/devices/{id}", m.handleDevice)

	return r
}

// StartServer starts listening and serving in the background. It
// returns once the listener is bound; the URL is printed to stderr.
func (m *Monitor) StartServer() error {
	m.router = m.buildRouter()

	listener, err := net.Listen("tcp",
		fmt.Sprintf("127.0.0.1:%d", m.portNumber))
	if err != nil {
		return fmt.Errorf("monitoring: binding server: %w", err)
	}

	m.listener = listener

	fmt.Fprintf(os.Stderr, "Monitoring server started at http://%s\n",
		listener.Addr().String())

	go func() {
		_ = http.Serve(listener, m.router)
	}()

	return nil
}

// URL returns the base URL of a started server.
func (m *Monitor) URL() string {
	return "http://" + m.listener.Addr().String()
}

// StartDashboard opens the served API in the default browser.
func (m *Monitor) StartDashboard() error {
	return browser.OpenURL(m.URL() + "/api/devices")
}

type typeEntry struct {
	Name       string      `json:"name"`
	Parent     string      `json:"parent,omitempty"`
	Abstract   bool        `json:"abstract,omitempty"`
	Properties []propEntry `json:"properties,omitempty"`
}

type propEntry struct {
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	HasDefault bool   `json:"has_default"`
}

type deviceEntry struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Realized   bool           `json:"realized"`
	Clocks     []string       `json:"clocks,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
}

func (m *Monitor) handleTypes(w http.ResponseWriter, _ *http.Request) {
	var entries []typeEntry
	for _, name := range object.TypeNames() {
		t, _ := object.Lookup(name)

		entry := typeEntry{
			Name:     t.Name,
			Parent:   t.Parent,
			Abstract: t.Abstract,
		}

		if dc, ok := object.ClassFor(name).(*device.Class); ok {
			for _, p := range dc.Props.All() {
				entry.Properties = append(entry.Properties, propEntry{
					Name:       p.Name,
					Kind:       p.Info.Name,
					HasDefault: p.SetDefault,
				})
			}
		}

		entries = append(entries, entry)
	}

	writeJSON(w, entries)
}

func (m *Monitor) handleDevices(w http.ResponseWriter, _ *http.Request) {
	var entries []deviceEntry
	for _, dev := range m.machine.Devices() {
		entries = append(entries, describeDevice(dev))
	}

	writeJSON(w, entries)
}

func (m *Monitor) handleDevice(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	dev, ok := m.machine.Device(id)
	if !ok {
		http.Error(w, "device "+id+" not found", http.StatusNotFound)
		return
	}

	writeJSON(w, describeDevice(dev))
}

func describeDevice(dev device.Dev) deviceEntry {
	s := dev.DeviceState()

	entry := deviceEntry{
		ID:       dev.Name(),
		Type:     s.Type().Name,
		Realized: s.Realized(),
		Clocks:   s.ClockNames(),
	}

	props := device.ClassOf(dev).Props.All()
	if len(props) > 0 {
		entry.Properties = make(map[string]any, len(props))
		for _, p := range props {
			val := p.Get(object.StatePointer(dev))
			if chr, ok := val.(*chardev.Chardev); ok {
				if chr == nil {
					val = nil
				} else {
					val = chr.Label
				}
			}

			entry.Properties[p.Name] = val
		}
	}

	return entry
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
