// Package billing provides the domain model for the invoicing ledger.
//
// This package implements the billing bounded context, which is responsible for:
//   - Managing customers and their invoices
//   - Recording payments against invoices
//   - Deriving invoice settlement state (unpaid, partial, paid) from the
//     payment set
//
// Key Aggregates:
//   - Customer: A billed party owning invoices
//   - Invoice: An amount billed to a customer, with derived paid amount and status
//
// Entities:
//   - Payment: An append-only record of money received against an invoice
//
// Invoice status is never mutated directly: it is always recomputed from the
// full payment set via ComputeBalance and written back in the same transaction
// that changed the payments.
package billing
