package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	appctx "numera/internal/core/context"
	"numera/internal/core/id"
	"numera/internal/core/sequence"
)

// CompressionAlgo specifies the compression algorithm used for journal metadata.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// JournalEntry is a single issued-number record.
type JournalEntry struct {
	ID                 id.ID           `db:"id"`
	RuleID             id.ID           `db:"rule_id"`
	RuleCode           string          `db:"rule_code"`
	Number             string          `db:"number"`
	SequenceValue      int64           `db:"sequence_value"`
	WasReset           bool            `db:"was_reset"`
	Metadata           json.RawMessage `db:"metadata"`
	MetadataCompressed []byte          `db:"metadata_compressed"`
	CompressionAlgo    CompressionAlgo `db:"compression_algo"`
	IssuedAt           time.Time       `db:"issued_at"`
}

// JournalFilter narrows journal listings.
type JournalFilter struct {
	RuleCode string
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

// JournalService records every issued number. Record joins the caller's
// transaction through the context, so a failed write rolls back the
// generation that produced it.
type JournalService struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
}

// Ensure compile-time interface compliance.
var _ sequence.Recorder = (*JournalService)(nil)

// NewJournalService creates a new journal service.
func NewJournalService(txManager *TxManager, compressThreshold int) (*JournalService, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	if compressThreshold <= 0 {
		compressThreshold = 4 * 1024 // 4KB
	}

	return &JournalService{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: compressThreshold,
	}, nil
}

// entryMetadata captures who asked for the number and under which trace.
type entryMetadata struct {
	Subject   string `json:"subject,omitempty"`
	TraceID   string `json:"trace_id,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// Record persists one issued number.
func (s *JournalService) Record(ctx context.Context, issued sequence.Issued) error {
	entry := JournalEntry{
		ID:            id.New(),
		RuleID:        issued.RuleID,
		RuleCode:      issued.RuleCode,
		Number:        issued.Number,
		SequenceValue: issued.Sequence,
		WasReset:      issued.Reset,
		IssuedAt:      issued.IssuedAt,
	}
	if entry.IssuedAt.IsZero() {
		entry.IssuedAt = time.Now().UTC()
	}

	meta := entryMetadata{
		TraceID:   appctx.GetTraceID(ctx),
		RequestID: appctx.GetRequestID(ctx),
	}
	if caller := appctx.GetCaller(ctx); caller != nil {
		meta.Subject = caller.Subject
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal journal metadata: %w", err)
	}
	entry.Metadata = metaJSON

	entry.CompressionAlgo = CompressionNone
	if len(entry.Metadata) > s.compressThreshold {
		entry.MetadataCompressed = s.encoder.EncodeAll(entry.Metadata, nil)
		entry.Metadata = nil
		entry.CompressionAlgo = CompressionZstd
	}

	sql := `
		INSERT INTO numbering_journal (
			id, rule_id, rule_code, number, sequence_value, was_reset,
			metadata, metadata_compressed, compression_algo, issued_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	querier := s.txManager.GetQuerier(ctx)
	_, err = querier.Exec(ctx, sql,
		entry.ID, entry.RuleID, entry.RuleCode, entry.Number,
		entry.SequenceValue, entry.WasReset,
		entry.Metadata, entry.MetadataCompressed, entry.CompressionAlgo,
		entry.IssuedAt,
	)
	if err != nil {
		return fmt.Errorf("insert journal entry: %w", err)
	}

	return nil
}

// List retrieves journal entries, newest first.
func (s *JournalService) List(ctx context.Context, filter JournalFilter) ([]JournalEntry, error) {
	sql := `
		SELECT id, rule_id, rule_code, number, sequence_value, was_reset,
			   metadata, metadata_compressed, compression_algo, issued_at
		FROM numbering_journal
		WHERE ($1 = '' OR rule_code = $1)
		  AND ($2::timestamptz IS NULL OR issued_at >= $2)
		  AND ($3::timestamptz IS NULL OR issued_at < $3)
		ORDER BY issued_at DESC
		LIMIT $4 OFFSET $5
	`

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.txManager.GetQuerier(ctx).Query(ctx, sql,
		filter.RuleCode, filter.From, filter.To, limit, filter.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	var entries []JournalEntry
	for rows.Next() {
		var e JournalEntry
		err := rows.Scan(
			&e.ID, &e.RuleID, &e.RuleCode, &e.Number,
			&e.SequenceValue, &e.WasReset,
			&e.Metadata, &e.MetadataCompressed, &e.CompressionAlgo,
			&e.IssuedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}

		if e.CompressionAlgo == CompressionZstd && len(e.MetadataCompressed) > 0 {
			decompressed, err := s.decoder.DecodeAll(e.MetadataCompressed, nil)
			if err != nil {
				return nil, fmt.Errorf("decompress journal metadata: %w", err)
			}
			e.Metadata = decompressed
			e.MetadataCompressed = nil
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}
