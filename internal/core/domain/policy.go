package domain

// Operation names a boundary-level action subject to role policy.
type Operation string

const (
	OpPostDocument    Operation = "POST_DOCUMENT"
	OpReverseEntry    Operation = "REVERSE_ENTRY"
	OpReadLedger      Operation = "READ_LEDGER"
	OpReadReports     Operation = "READ_REPORTS"
	OpManageAccounts  Operation = "MANAGE_ACCOUNTS"
	OpLockPeriod      Operation = "LOCK_PERIOD"
	OpUnlockPeriod    Operation = "UNLOCK_PERIOD"
	OpManageMembers   Operation = "MANAGE_MEMBERS"
	OpUpdateLocale    Operation = "UPDATE_LOCALE"
	OpCreateDraft     Operation = "CREATE_DRAFT"
	OpReadAccounts    Operation = "READ_ACCOUNTS"
	OpReadPeriodLocks Operation = "READ_PERIOD_LOCKS"
)

// rolePolicy is the single source of truth for role-based access, consulted
// once at the API boundary before invoking the core. The posting engine and
// stores stay role-agnostic.
var rolePolicy = map[TenantRole]map[Operation]bool{
	RoleAdmin: {
		OpPostDocument: true, OpReverseEntry: true, OpReadLedger: true,
		OpReadReports: true, OpManageAccounts: true, OpLockPeriod: true,
		OpUnlockPeriod: true, OpManageMembers: true, OpUpdateLocale: true,
		OpCreateDraft: true, OpReadAccounts: true, OpReadPeriodLocks: true,
	},
	RoleAccountant: {
		OpPostDocument: true, OpReverseEntry: true, OpReadLedger: true,
		OpReadReports: true, OpManageAccounts: true, OpLockPeriod: true,
		OpCreateDraft: true, OpReadAccounts: true, OpReadPeriodLocks: true,
	},
	RoleStaff: {
		OpCreateDraft: true, OpReadAccounts: true,
	},
	RoleAuditor: {
		OpReadLedger: true, OpReadReports: true, OpReadAccounts: true,
		OpReadPeriodLocks: true,
	},
}

// PolicyAllows reports whether the role may perform the operation.
func PolicyAllows(role TenantRole, op Operation) bool {
	perms, ok := rolePolicy[role]
	if !ok {
		return false
	}
	return perms[op]
}
