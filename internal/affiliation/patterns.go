package affiliation

// DefaultInclude is the stock inclusion rule set: the campus name in any
// spacing, the parent institute co-located with the campus town in either
// order, and the campus street address.
var DefaultInclude = []string{
	`janelia`,
	`ashburn.*(hhmi|howard\s*hughes)`,
	`(hhmi|howard\s*hughes).*ashburn`,
	`19700\s+helix\s+drive`,
}

// DefaultExclude names hosted but non-member entities that share the campus
// address. An exclusion match always wins over an inclusion match.
var DefaultExclude = []string{
	`visiting\s+scientist\s+program`,
	`janelia\s+visitor\s+project`,
}
