package cloudflare

import (
	"context"

	"github.com/Esysc/cloudflare-ddns/internal/ddns"
	"github.com/cloudflare/cloudflare-go/v6"
	"github.com/cloudflare/cloudflare-go/v6/dns"
	"github.com/cloudflare/cloudflare-go/v6/zones"
)

// ZoneIDByName returns the ID of the first zone matching zoneName, or ""
// when the lookup succeeds with no match. Any non-2xx response, bad
// credentials included, comes back as an error and counts as a network
// failure.
func (a *API) ZoneIDByName(ctx context.Context, zoneName string) (string, error) {
	list, err := a.client.Zones.List(ctx, zones.ZoneListParams{Name: cloudflare.String(zoneName)})
	if err != nil {
		return "", err
	}
	if len(list.Result) == 0 {
		return "", nil
	}
	return list.Result[0].ID, nil
}

// ListARecords returns the A records matching recordName exactly. An empty
// slice means the listing succeeded with no matches; failed responses come
// back as errors.
func (a *API) ListARecords(ctx context.Context, zoneID, recordName string) ([]ddns.Record, error) {
	list, err := a.client.DNS.Records.List(ctx, dns.RecordListParams{
		ZoneID: cloudflare.F(zoneID),
		Name:   cloudflare.F(dns.RecordListParamsName{Exact: cloudflare.F(recordName)}),
		Type:   cloudflare.F(dns.RecordListParamsTypeA),
	})
	if err != nil {
		return nil, err
	}

	records := make([]ddns.Record, 0, len(list.Result))
	for _, r := range list.Result {
		records = append(records, ddns.Record{
			ID:      r.ID,
			Name:    r.Name,
			Type:    string(r.Type),
			Content: r.Content,
		})
	}
	return records, nil
}

type updateFunc func(ctx context.Context, zoneID, recordID, ip string) (ddns.Record, error)

// UpdateRecordContent changes only the content field of one record,
// preserving every other attribute. In dry-run mode this is intercepted
// before any network I/O.
func (a *API) UpdateRecordContent(ctx context.Context, zoneID, recordID, ip string) (ddns.Record, error) {
	return a.update(ctx, zoneID, recordID, ip)
}

func (a *API) patchRecord(ctx context.Context, zoneID, recordID, ip string) (ddns.Record, error) {
	// PATCH with only the content field set; everything else on the record
	// (TTL, proxied flag, comment) stays as it is.
	record, err := a.client.DNS.Records.Edit(ctx, recordID, dns.RecordEditParams{
		ZoneID: cloudflare.F(zoneID),
		Body: &dns.ARecordParam{
			Content: cloudflare.F(ip),
		},
	})
	if err != nil {
		return ddns.Record{}, err
	}
	return ddns.Record{
		ID:      record.ID,
		Name:    record.Name,
		Type:    string(record.Type),
		Content: record.Content,
	}, nil
}

func (a *API) simulateUpdate(_ context.Context, _ string, recordID, ip string) (ddns.Record, error) {
	a.log.Infof("DRY RUN - would set record %s content to %s", recordID, ip)
	return ddns.Record{ID: recordID, Type: "A", Content: ip}, nil
}
