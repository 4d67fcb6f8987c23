package readcache

// Key names one read model. Mutations declare the keys they make stale.
type Key string

func JobDetail(jobID string) Key {
	return Key("job:" + jobID)
}

func JobList(buyerID string) Key {
	return Key("jobs:buyer:" + buyerID)
}

func JobBids(jobID string) Key {
	return Key("job-bids:" + jobID)
}

func BidDetail(bidID string) Key {
	return Key("bid:" + bidID)
}

func BidList(contractorID string) Key {
	return Key("bids:contractor:" + contractorID)
}

func Credits(contractorID string) Key {
	return Key("credits:" + contractorID)
}

func jobOwner(jobID string) string {
	return "job-owner:" + jobID
}
