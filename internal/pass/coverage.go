package pass

import "time"

// CoverageWindow is the known operational period of a platform. A zero
// ValidMax means the platform is still operating; it is approximated by
// a far-future sentinel during classification.
type CoverageWindow struct {
	ValidMin time.Time
	ValidMax time.Time
}

// CoverageTable maps a platform identifier to its temporal coverage. It
// is read-only reference data handed to the Classifier at construction.
type CoverageTable map[string]CoverageWindow

// openEndedMax approximates "still operating" for platforms without a
// known decommissioning date.
var openEndedMax = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

func utc(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}

// DefaultCoverage returns the estimated temporal coverage of the AVHRR
// carrier platforms, based on the NOAA L1B archive.
func DefaultCoverage() CoverageTable {
	return CoverageTable{
		"METOP-A": {ValidMin: utc(2007, 6, 28, 23, 14)},
		"METOP-B": {ValidMin: utc(2013, 1, 1, 1, 1)},
		"NOAA-6":  {ValidMin: utc(1980, 1, 1, 0, 0), ValidMax: utc(1982, 8, 3, 0, 39)},
		"NOAA-7":  {ValidMin: utc(1981, 8, 24, 0, 13), ValidMax: utc(1985, 2, 1, 22, 21)},
		"NOAA-8":  {ValidMin: utc(1983, 5, 4, 19, 9), ValidMax: utc(1985, 10, 14, 3, 26)},
		"NOAA-9":  {ValidMin: utc(1985, 2, 25, 0, 13), ValidMax: utc(1988, 11, 7, 21, 18)},
		"NOAA-10": {ValidMin: utc(1986, 11, 17, 1, 22), ValidMax: utc(1991, 9, 16, 21, 19)},
		"NOAA-11": {ValidMin: utc(1988, 11, 8, 0, 16), ValidMax: utc(1994, 10, 16, 23, 27)},
		"NOAA-12": {ValidMin: utc(1991, 9, 16, 0, 17), ValidMax: utc(1998, 12, 14, 20, 43)},
		"NOAA-14": {ValidMin: utc(1995, 1, 20, 0, 37), ValidMax: utc(2002, 10, 7, 22, 47)},
		"NOAA-15": {ValidMin: utc(1998, 10, 26, 0, 54)},
		"NOAA-16": {ValidMin: utc(2001, 1, 1, 0, 0), ValidMax: utc(2011, 12, 31, 23, 40)},
		"NOAA-17": {ValidMin: utc(2002, 6, 25, 5, 41), ValidMax: utc(2011, 12, 31, 19, 11)},
		"NOAA-18": {ValidMin: utc(2005, 5, 20, 18, 17)},
		"NOAA-19": {ValidMin: utc(2009, 2, 6, 18, 32)},
		"TIROS-N": {ValidMin: utc(1978, 11, 5, 9, 8), ValidMax: utc(1980, 1, 30, 17, 3)},
	}
}
