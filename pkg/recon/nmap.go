package recon

import (
	"context"
	"fmt"
	"strconv"
	"time"

	nmap "github.com/Ullaakut/nmap/v3"
	"github.com/go-ping/ping"
	"github.com/rs/zerolog/log"
)

// Source acquires the service catalog for a target. Implementations block
// and must honor context cancellation; acquisition is one of the two
// suspension points of an analysis.
type Source interface {
	Discover(ctx context.Context, target string) ([]Service, error)
}

// NmapSource discovers services by running an nmap version scan.
type NmapSource struct {
	// Ports limits the scan (nmap port spec syntax). Empty scans the
	// default port set.
	Ports string

	// Timeout bounds the whole scan process. Zero means no wrapper
	// deadline beyond the caller's context.
	Timeout time.Duration

	// PingFirst sends a single ICMP echo before scanning and skips the
	// scan when the host does not answer.
	PingFirst   bool
	PingTimeout time.Duration
}

// Discover runs nmap -sV against the target and returns the normalized
// service list. Only open ports are reported.
func (s *NmapSource) Discover(ctx context.Context, target string) ([]Service, error) {
	if !ValidTarget(target) {
		return nil, fmt.Errorf("unsafe target %q", target)
	}

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	if s.PingFirst {
		if alive, err := s.probe(target); err != nil {
			log.Warn().Str("component", "recon").Str("target", target).Err(err).
				Msg("Liveness probe failed, scanning anyway")
		} else if !alive {
			log.Info().Str("component", "recon").Str("target", target).
				Msg("Host did not answer ping, skipping scan")
			return nil, nil
		}
	}

	opts := []nmap.Option{
		nmap.WithTargets(target),
		nmap.WithServiceInfo(), // -sV
		nmap.WithOpenOnly(),
		nmap.WithDisabledDNSResolution(),
	}
	if s.Ports != "" {
		opts = append(opts, nmap.WithPorts(s.Ports))
	}

	scanner, err := nmap.NewScanner(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create nmap scanner: %w", err)
	}

	result, warnings, err := scanner.Run()
	if err != nil {
		return nil, fmt.Errorf("run nmap: %w", err)
	}
	if warnings != nil && len(*warnings) > 0 {
		log.Warn().Str("component", "recon").Strs("warnings", *warnings).
			Msg("Nmap produced warnings")
	}

	var services []Service
	for _, host := range result.Hosts {
		for _, port := range host.Ports {
			services = append(services, Service{
				Name:     port.Service.Name,
				Port:     strconv.Itoa(int(port.ID)),
				Protocol: port.Protocol,
				Product:  port.Service.Product,
				Version:  port.Service.Version,
			})
		}
	}

	log.Info().Str("component", "recon").Str("target", target).
		Int("services", len(services)).Msg("Scan complete")
	return services, nil
}

func (s *NmapSource) probe(target string) (bool, error) {
	pinger, err := ping.NewPinger(target)
	if err != nil {
		return false, err
	}
	pinger.SetPrivileged(false)
	pinger.Count = 1
	pinger.Timeout = s.PingTimeout
	if pinger.Timeout <= 0 {
		pinger.Timeout = 2 * time.Second
	}
	if err := pinger.Run(); err != nil {
		return false, err
	}
	return pinger.Statistics().PacketsRecv > 0, nil
}
