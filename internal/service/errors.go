package service

import "errors"

// ErrTenantMismatch is returned when a record exists but belongs to a tenant
// other than the caller's. Handlers map it to 403 so knowing a UUID is never
// enough to read or mutate another depot's data.
var ErrTenantMismatch = errors.New("record belongs to another tenant")
