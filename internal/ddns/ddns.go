// Package ddns holds the reconciliation logic: compare the A records for a
// name against the machine's current public IP and update the stale ones.
package ddns

import (
	"context"
	"fmt"

	"github.com/Esysc/cloudflare-ddns/internal/config"
	"github.com/sirupsen/logrus"
)

// ExitCode is the process exit status contract. The values are load-bearing
// for schedulers wrapping this tool and must not be renumbered.
type ExitCode int

const (
	ExitUpdated      ExitCode = 0 // at least one record updated, or would be in dry-run
	ExitNoRecords    ExitCode = 1 // no matching A records exist
	ExitMissingToken ExitCode = 2
	ExitNetworkError ExitCode = 3
	ExitZoneNotFound ExitCode = 4
	ExitMissingNames ExitCode = 6 // zone or record name not provided
	ExitUpToDate     ExitCode = 7 // records found but none needed updating
)

// ExitError adapts a non-zero ExitCode to the error the CLI layer returns.
type ExitError struct {
	Code ExitCode
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// Record is one provider-side DNS record.
type Record struct {
	ID      string
	Name    string
	Type    string
	Content string
}

// Provider lists and mutates DNS records. Lookup calls return an absent or
// empty result only when the provider answered successfully with no match;
// any failed request, HTTP error responses included, comes back as an error.
type Provider interface {
	// ZoneIDByName returns "" when no zone matches.
	ZoneIDByName(ctx context.Context, zone string) (string, error)
	ListARecords(ctx context.Context, zoneID, name string) ([]Record, error)
	UpdateRecordContent(ctx context.Context, zoneID, recordID, ip string) (Record, error)
}

// Resolver returns the current public IPv4 address.
type Resolver interface {
	Resolve(ctx context.Context) (string, error)
}

// Run executes one reconcile pass and returns the process exit code. It is
// the single place where transport errors are translated to an exit status.
func Run(ctx context.Context, cfg config.Config, provider Provider, resolver Resolver, log *logrus.Logger) ExitCode {
	if cfg.APIToken == "" {
		log.Error("no API token configured")
		return ExitMissingToken
	}
	if cfg.ZoneName == "" || cfg.RecordName == "" {
		log.Error("zone and DNS name must be provided")
		return ExitMissingNames
	}

	zoneID, err := provider.ZoneIDByName(ctx, cfg.ZoneName)
	if err != nil {
		log.Errorf("a network error occurred: %v", err)
		return ExitNetworkError
	}
	if zoneID == "" {
		log.Errorf("zone %s not found", cfg.ZoneName)
		return ExitZoneNotFound
	}

	records, err := provider.ListARecords(ctx, zoneID, cfg.RecordName)
	if err != nil {
		log.Errorf("a network error occurred: %v", err)
		return ExitNetworkError
	}
	if len(records) == 0 {
		log.Infof("no A record found for %s in zone %s", cfg.RecordName, cfg.ZoneName)
		return ExitNoRecords
	}

	ip, err := resolver.Resolve(ctx)
	if err != nil {
		log.Errorf("a network error occurred: %v", err)
		return ExitNetworkError
	}

	anyUpdated := false
	for _, record := range records {
		if record.Content == ip {
			log.Infof("record %s already up to date - IP: %s", record.ID, ip)
			continue
		}
		updated, err := provider.UpdateRecordContent(ctx, zoneID, record.ID, ip)
		if err != nil {
			log.Errorf("a network error occurred: %v", err)
			return ExitNetworkError
		}
		log.Infof("record %s updated: %s -> %s", updated.ID, record.Content, ip)
		anyUpdated = true
	}

	if !anyUpdated {
		log.Info("no records needed update")
		return ExitUpToDate
	}
	return ExitUpdated
}
