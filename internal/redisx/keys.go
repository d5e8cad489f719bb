package redisx

import "time"

const (
	// Idempotency commit sale: idem:sale:commit:{key} -> sale_id
	KeyIdemSaleCommit = "idem:sale:commit:%s"
)

var TTLIdempotency = 24 * time.Hour
