package model

// Policy controls how strictly a converter treats its inputs.
type Policy struct {
	// TolerateMalformedLocation turns a location parse failure into an
	// absent world instance instead of a conversion error.
	TolerateMalformedLocation bool

	// StrictRegion rejects unknown ~region() tokens instead of mapping them
	// to vrc.RegionOther.
	StrictRegion bool
}

// DefaultJoinLeavePolicy fails join/leave rows whose location is malformed.
func DefaultJoinLeavePolicy() Policy {
	return Policy{}
}

// DefaultLocationPolicy keeps location rows whose location is malformed,
// dropping only the world instance.
func DefaultLocationPolicy() Policy {
	return Policy{TolerateMalformedLocation: true}
}

// DefaultFriendTrustPolicy is used for friend log rows, which carry no location.
func DefaultFriendTrustPolicy() Policy {
	return Policy{}
}
