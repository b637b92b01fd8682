// Package opcua exposes an OPC UA server as a station instrument:
// each configured node becomes a settable/gettable parameter, so
// networked rack hardware (DC sources, magnets, cryostat controls)
// plugs into scans without a dedicated driver.
package opcua

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gopcua/opcua"
	"github.com/gopcua/opcua/ua"

	"github.com/VandersypenQutech/qtt/internal/domain"
	"github.com/VandersypenQutech/qtt/internal/ports"
)

// Config captures the runtime details required to open an OPC UA
// session and the nodes exposed as parameters.
type Config struct {
	Name            string        `yaml:"name"`
	Endpoint        string        `yaml:"endpoint"`
	Username        string        `yaml:"username"`
	Password        string        `yaml:"password"`
	SecurityMode    string        `yaml:"security_mode"`
	SecurityPolicy  string        `yaml:"security_policy"`
	ApplicationName string        `yaml:"application_name"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	Nodes           []NodeConfig  `yaml:"nodes"`
}

// NodeConfig maps one node onto a parameter name.
type NodeConfig struct {
	NodeID    string `yaml:"node_id"`
	Parameter string `yaml:"parameter"`
}

func (c *Config) ApplyDefaults() {
	if c.SecurityMode == "" {
		c.SecurityMode = "None"
	}
	if c.SecurityPolicy == "" {
		c.SecurityPolicy = "None"
	}
	if c.ApplicationName == "" {
		c.ApplicationName = "qtt scan engine"
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 5 * time.Second
	}
	for i := range c.Nodes {
		if c.Nodes[i].Parameter == "" {
			c.Nodes[i].Parameter = c.Nodes[i].NodeID
		}
	}
}

func (c *Config) Validate() error {
	if c.Name == "" {
		return errors.New("name is required")
	}
	if c.Endpoint == "" {
		return errors.New("endpoint is required")
	}
	if len(c.Nodes) == 0 {
		return errors.New("at least one node must be configured")
	}
	return nil
}

// Instrument is an OPC UA-backed station instrument.
type Instrument struct {
	mu       sync.Mutex
	cfg      Config
	client   *opcua.Client
	registry ports.Registry
	nodes    map[string]*ua.NodeID
}

// NewInstrument parses the node configuration and registers the
// instrument; Connect must be called before parameters are used.
func NewInstrument(reg ports.Registry, cfg Config) (*Instrument, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	nodes := make(map[string]*ua.NodeID, len(cfg.Nodes))
	for _, node := range cfg.Nodes {
		id, err := ua.ParseNodeID(node.NodeID)
		if err != nil {
			return nil, fmt.Errorf("parse node id %q: %w", node.NodeID, err)
		}
		nodes[node.Parameter] = id
	}

	inst := &Instrument{cfg: cfg, registry: reg, nodes: nodes}
	if reg != nil {
		if err := reg.Register(inst); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

// Connect opens the OPC UA session.
func (i *Instrument) Connect(ctx context.Context) error {
	opts := []opcua.Option{
		opcua.SecurityModeString(normalizeSecurityMode(i.cfg.SecurityMode)),
		opcua.SecurityPolicy(normalizeSecurityPolicy(i.cfg.SecurityPolicy)),
		opcua.ApplicationName(i.cfg.ApplicationName),
		opcua.AutoReconnect(true),
	}
	if i.cfg.Username != "" {
		opts = append(opts, opcua.AuthUsername(i.cfg.Username, i.cfg.Password))
	} else {
		opts = append(opts, opcua.AuthAnonymous())
	}

	client, err := opcua.NewClient(i.cfg.Endpoint, opts...)
	if err != nil {
		return fmt.Errorf("opcua new client: %w", err)
	}
	if err := client.Connect(ctx); err != nil {
		return fmt.Errorf("opcua connect %s: %w", i.cfg.Endpoint, err)
	}

	i.mu.Lock()
	i.client = client
	i.mu.Unlock()
	return nil
}

func (i *Instrument) Name() string { return i.cfg.Name }

func (i *Instrument) Parameter(name string) (domain.Parameter, error) {
	id, ok := i.nodes[name]
	if !ok {
		return nil, fmt.Errorf("opcua: instrument %q has no parameter %q", i.cfg.Name, name)
	}
	return &nodeParameter{inst: i, name: name, node: id}, nil
}

// Close disconnects and deregisters the instrument.
func (i *Instrument) Close(ctx context.Context) error {
	i.mu.Lock()
	client := i.client
	i.client = nil
	i.mu.Unlock()

	var err error
	if client != nil {
		if e := client.Close(ctx); e != nil && !errors.Is(e, context.Canceled) {
			err = e
		}
	}
	if i.registry != nil {
		if e := i.registry.Deregister(i.cfg.Name); e != nil {
			err = errors.Join(err, e)
		}
	}
	return err
}

func (i *Instrument) session() (*opcua.Client, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.client == nil {
		return nil, fmt.Errorf("opcua: instrument %q is not connected", i.cfg.Name)
	}
	return i.client, nil
}

// nodeParameter adapts one node to the blocking set/get contract used
// by the scan engine.
type nodeParameter struct {
	inst *Instrument
	name string
	node *ua.NodeID
}

func (p *nodeParameter) Name() string { return p.inst.cfg.Name + "." + p.name }

func (p *nodeParameter) Set(v float64) error {
	client, err := p.inst.session()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), p.inst.cfg.RequestTimeout)
	defer cancel()

	variant, err := ua.NewVariant(v)
	if err != nil {
		return fmt.Errorf("opcua: encode %g: %w", v, err)
	}
	resp, err := client.Write(ctx, &ua.WriteRequest{
		NodesToWrite: []*ua.WriteValue{{
			NodeID:      p.node,
			AttributeID: ua.AttributeIDValue,
			Value: &ua.DataValue{
				EncodingMask: ua.DataValueValue,
				Value:        variant,
			},
		}},
	})
	if err != nil {
		return fmt.Errorf("opcua: write %s: %w", p.Name(), err)
	}
	if len(resp.Results) == 0 || resp.Results[0] != ua.StatusOK {
		return fmt.Errorf("opcua: write %s rejected: %v", p.Name(), resp.Results)
	}
	return nil
}

func (p *nodeParameter) Get() (float64, error) {
	client, err := p.inst.session()
	if err != nil {
		return 0, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), p.inst.cfg.RequestTimeout)
	defer cancel()

	resp, err := client.Read(ctx, &ua.ReadRequest{
		NodesToRead:        []*ua.ReadValueID{{NodeID: p.node}},
		TimestampsToReturn: ua.TimestampsToReturnNeither,
	})
	if err != nil {
		return 0, fmt.Errorf("opcua: read %s: %w", p.Name(), err)
	}
	if len(resp.Results) == 0 || resp.Results[0].Status != ua.StatusOK {
		return 0, fmt.Errorf("opcua: read %s rejected", p.Name())
	}
	v, ok := variantToFloat(resp.Results[0].Value)
	if !ok {
		return 0, fmt.Errorf("opcua: node %s holds a non-numeric value", p.Name())
	}
	return v, nil
}

func variantToFloat(v *ua.Variant) (float64, bool) {
	if v == nil {
		return 0, false
	}

	switch val := v.Value().(type) {
	case float32:
		return float64(val), true
	case float64:
		return val, true
	case int8:
		return float64(val), true
	case uint8:
		return float64(val), true
	case int16:
		return float64(val), true
	case uint16:
		return float64(val), true
	case int32:
		return float64(val), true
	case uint32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint64:
		return float64(val), true
	default:
		return 0, false
	}
}

func normalizeSecurityMode(mode string) string {
	switch strings.ToLower(mode) {
	case "sign":
		return "Sign"
	case "signandencrypt", "signencrypt", "sign_and_encrypt", "sign+encrypt":
		return "SignAndEncrypt"
	default:
		return "None"
	}
}

func normalizeSecurityPolicy(policy string) string {
	if policy == "" {
		return "None"
	}
	return policy
}

var _ domain.Instrument = (*Instrument)(nil)
var _ domain.Parameter = (*nodeParameter)(nil)
