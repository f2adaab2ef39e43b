// Copyright 2021 the Order Export Server authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package orders reads pending publication orders from the data store.
package orders

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pubfeed/order-export-server/internal/database"

	"github.com/jackc/pgx/v4"
)

// Batch is one run's aggregated order document. It is an opaque XML blob:
// retrieved, staged, and uploaded without ever being parsed or modified.
type Batch []byte

// retrieveSQL invokes the server-side export procedure. The single parameter
// is the view-only flag; this pipeline always passes false, so the same call
// that returns the document also marks the returned orders as exported. The
// procedure emits the document as a sequence of text fragments in cursor
// order.
const retrieveSQL = `SELECT fragment FROM pending_order_export($1)`

// viewOnly is fixed: there is no read-only peek in this contract.
const viewOnly = false

// DataAccessError indicates the order document could not be fully retrieved.
// When it is returned, no partial document was produced.
type DataAccessError struct {
	Op  string
	Err error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("orders: %s: %v", e.Op, e.Err)
}

func (e *DataAccessError) Unwrap() error {
	return e.Err
}

// querier is the slice of pgxpool.Pool the repository needs.
type querier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// Repository retrieves pending orders.
//
// Retrieval commits consumption: once RetrievePending returns, the underlying
// rows are marked exported and a subsequent call will not return them again,
// even if the rest of the run fails. Overlapping invocations against the same
// database are therefore unsafe and must be prevented by external scheduling.
type Repository struct {
	q querier
}

// New creates a Repository on top of the given database.
func New(db *database.DB) *Repository {
	return &Repository{q: db.Pool()}
}

func newRepository(q querier) *Repository {
	return &Repository{q: q}
}

// RetrievePending returns the complete pending-order document and marks the
// underlying orders as exported in the same call.
//
// The result cursor is consumed to exhaustion, accumulating fragments, so the
// document survives intact no matter how the server chunks it. A single-shot
// scalar read silently truncates documents past the driver's 2,033-character
// read boundary; the cursor must always be drained.
func (r *Repository) RetrievePending(ctx context.Context) (Batch, error) {
	rows, err := r.q.Query(ctx, retrieveSQL, viewOnly)
	if err != nil {
		return nil, &DataAccessError{Op: "executing export procedure", Err: err}
	}
	defer rows.Close()

	var doc bytes.Buffer
	for rows.Next() {
		var fragment string
		if err := rows.Scan(&fragment); err != nil {
			return nil, &DataAccessError{Op: "reading document fragment", Err: err}
		}
		doc.WriteString(fragment)
	}
	if err := rows.Err(); err != nil {
		return nil, &DataAccessError{Op: "draining result cursor", Err: err}
	}

	return Batch(doc.Bytes()), nil
}
