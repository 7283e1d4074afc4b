// Package governorate maps the identifier's 2-digit birth-region code to
// its canonical governorate name.
//
// The table is frozen at process start and only ever read, so concurrent
// lookups need no synchronization. A missing code is not a failure mode
// here; callers substitute the Unknown sentinel and carry on.
package governorate

// Unknown is the sentinel name for codes absent from the table.
const Unknown = "Unknown"

// CodeOutsideEgypt marks identifiers issued for births abroad.
const CodeOutsideEgypt = "88"

var names = map[string]string{
	"01": "Cairo",
	"02": "Alexandria",
	"03": "Port Said",
	"04": "Suez",
	"11": "Damietta",
	"12": "Dakahlia",
	"13": "Sharqia",
	"14": "Qalyubia",
	"15": "Kafr El-Sheikh",
	"16": "Gharbia",
	"17": "Menoufia",
	"18": "Beheira",
	"19": "Ismailia",
	"21": "Giza",
	"22": "Beni Suef",
	"23": "Fayoum",
	"24": "Minya",
	"25": "Asyut",
	"26": "Sohag",
	"27": "Qena",
	"28": "Aswan",
	"29": "Luxor",
	"31": "Red Sea",
	"32": "New Valley",
	"33": "Matrouh",
	"34": "North Sinai",
	"35": "South Sinai",
	CodeOutsideEgypt: "Outside Egypt",
}

// Lookup returns the canonical name for a 2-digit region code.
func Lookup(code string) (string, bool) {
	name, ok := names[code]
	return name, ok
}

// Name returns the canonical name, or the Unknown sentinel when the code
// is not in the table.
func Name(code string) string {
	if name, ok := names[code]; ok {
		return name
	}
	return Unknown
}

// Count reports the number of registered region codes.
func Count() int {
	return len(names)
}
