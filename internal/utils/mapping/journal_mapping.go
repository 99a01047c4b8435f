package mapping

import (
	"github.com/salesmatrix/accounting_backend/internal/core/domain"
	"github.com/salesmatrix/accounting_backend/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry to a model JournalEntry
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:          d.EntryID,
		TenantID:         d.TenantID,
		SourceType:       string(d.SourceType),
		SourceDocumentID: d.SourceDocumentID,
		EntryDate:        d.EntryDate,
		Description:      d.Description,
		CurrencyCode:     d.CurrencyCode,
		Status:           models.EntryStatus(d.Status),
		IdempotencyKey:   d.IdempotencyKey,
		OriginalEntryID:  d.OriginalEntryID,
		ReversingEntryID: d.ReversingEntryID,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a model JournalEntry to a domain JournalEntry
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:          m.EntryID,
		TenantID:         m.TenantID,
		SourceType:       domain.SourceType(m.SourceType),
		SourceDocumentID: m.SourceDocumentID,
		EntryDate:        m.EntryDate,
		Description:      m.Description,
		CurrencyCode:     m.CurrencyCode,
		Status:           domain.EntryStatus(m.Status),
		IdempotencyKey:   m.IdempotencyKey,
		OriginalEntryID:  m.OriginalEntryID,
		ReversingEntryID: m.ReversingEntryID,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalLine converts a domain JournalLine to a model JournalLine
func ToModelJournalLine(d domain.JournalLine, tenantID string) models.JournalLine {
	return models.JournalLine{
		LineID:       d.LineID,
		EntryID:      d.EntryID,
		TenantID:     tenantID,
		AccountID:    d.AccountID,
		Side:         string(d.Side),
		AmountMinor:  d.AmountMinor,
		CurrencyCode: d.CurrencyCode,
		Description:  d.Description,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalLine converts a model JournalLine to a domain JournalLine
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:       m.LineID,
		EntryID:      m.EntryID,
		AccountID:    m.AccountID,
		Side:         domain.EntrySide(m.Side),
		AmountMinor:  m.AmountMinor,
		CurrencyCode: m.CurrencyCode,
		Description:  m.Description,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainJournalLineSlice converts a slice of model JournalLines to a slice of domain JournalLines
func ToDomainJournalLineSlice(ms []models.JournalLine) []domain.JournalLine {
	ds := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalLine(m)
	}
	return ds
}

// ToModelIdempotencyKey converts a domain IdempotencyRecord to a model IdempotencyKey
func ToModelIdempotencyKey(d domain.IdempotencyRecord) models.IdempotencyKey {
	return models.IdempotencyKey{
		TenantID:    d.TenantID,
		Key:         d.Key,
		Fingerprint: d.Fingerprint,
		EntryID:     d.EntryID,
		CreatedAt:   d.CreatedAt,
	}
}

// ToDomainIdempotencyRecord converts a model IdempotencyKey to a domain IdempotencyRecord
func ToDomainIdempotencyRecord(m models.IdempotencyKey) domain.IdempotencyRecord {
	return domain.IdempotencyRecord{
		TenantID:    m.TenantID,
		Key:         m.Key,
		Fingerprint: m.Fingerprint,
		EntryID:     m.EntryID,
		CreatedAt:   m.CreatedAt,
	}
}
