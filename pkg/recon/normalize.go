package recon

import (
	"strings"

	"github.com/spf13/cast"
)

// Field aliases seen across scan sources. Different producers (nmap XML,
// agent payloads, imported tool output) use different key names for the same
// attribute; normalization folds them into the canonical Service fields.
var (
	nameKeys     = []string{"name", "service", "service_name"}
	portKeys     = []string{"port", "portid", "port_id"}
	protocolKeys = []string{"protocol", "proto"}
	productKeys  = []string{"product", "banner_product"}
	versionKeys  = []string{"version", "banner_version"}
)

// Normalize converts heterogeneous scan records into the canonical Service
// list. Missing fields become empty strings. A record without a usable port
// is skipped rather than failing the batch; partial results are preferred
// over total failure.
func Normalize(records []map[string]any) []Service {
	services := make([]Service, 0, len(records))
	for _, record := range records {
		if record == nil {
			continue
		}
		svc := Service{
			Name:     strings.TrimSpace(firstString(record, nameKeys)),
			Port:     strings.TrimSpace(firstString(record, portKeys)),
			Protocol: strings.ToLower(strings.TrimSpace(firstString(record, protocolKeys))),
			Product:  strings.TrimSpace(firstString(record, productKeys)),
			Version:  strings.TrimSpace(firstString(record, versionKeys)),
		}
		if svc.Port == "" {
			continue
		}
		services = append(services, svc)
	}
	return services
}

// firstString returns the first non-empty value among the aliased keys,
// coerced to string. cast handles sources that emit ports as numbers.
func firstString(record map[string]any, keys []string) string {
	for _, key := range keys {
		if v, ok := record[key]; ok {
			if s := cast.ToString(v); s != "" {
				return s
			}
		}
	}
	return ""
}
