// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package filter

import "strings"

// geocodes maps ISO 3166-1 alpha-2 codes to the country names stored by the
// geolocation lookup.
var geocodes = map[string]string{
	"AD": "Andorra", "AE": "United Arab Emirates", "AF": "Afghanistan", "AL": "Albania",
	"AM": "Armenia", "AO": "Angola", "AR": "Argentina", "AT": "Austria",
	"AU": "Australia", "AZ": "Azerbaijan", "BA": "Bosnia and Herzegovina", "BD": "Bangladesh",
	"BE": "Belgium", "BG": "Bulgaria", "BH": "Bahrain", "BO": "Bolivia",
	"BR": "Brazil", "BY": "Belarus", "CA": "Canada", "CH": "Switzerland",
	"CL": "Chile", "CN": "China", "CO": "Colombia", "CR": "Costa Rica",
	"CU": "Cuba", "CY": "Cyprus", "CZ": "Czechia", "DE": "Germany",
	"DK": "Denmark", "DO": "Dominican Republic", "DZ": "Algeria", "EC": "Ecuador",
	"EE": "Estonia", "EG": "Egypt", "ES": "Spain", "FI": "Finland",
	"FR": "France", "GB": "United Kingdom", "GE": "Georgia", "GH": "Ghana",
	"GR": "Greece", "GT": "Guatemala", "HK": "Hong Kong", "HR": "Croatia",
	"HU": "Hungary", "ID": "Indonesia", "IE": "Ireland", "IL": "Israel",
	"IN": "India", "IQ": "Iraq", "IR": "Iran", "IS": "Iceland",
	"IT": "Italy", "JM": "Jamaica", "JO": "Jordan", "JP": "Japan",
	"KE": "Kenya", "KR": "South Korea", "KW": "Kuwait", "KZ": "Kazakhstan",
	"LB": "Lebanon", "LI": "Liechtenstein", "LK": "Sri Lanka", "LT": "Lithuania",
	"LU": "Luxembourg", "LV": "Latvia", "MA": "Morocco", "MC": "Monaco",
	"MD": "Moldova", "ME": "Montenegro", "MK": "North Macedonia", "MT": "Malta",
	"MX": "Mexico", "MY": "Malaysia", "NG": "Nigeria", "NL": "Netherlands",
	"NO": "Norway", "NZ": "New Zealand", "OM": "Oman", "PA": "Panama",
	"PE": "Peru", "PH": "Philippines", "PK": "Pakistan", "PL": "Poland",
	"PR": "Puerto Rico", "PT": "Portugal", "PY": "Paraguay", "QA": "Qatar",
	"RO": "Romania", "RS": "Serbia", "RU": "Russia", "SA": "Saudi Arabia",
	"SE": "Sweden", "SG": "Singapore", "SI": "Slovenia", "SK": "Slovakia",
	"TH": "Thailand", "TN": "Tunisia", "TR": "Turkey", "TW": "Taiwan",
	"UA": "Ukraine", "US": "United States", "UY": "Uruguay", "UZ": "Uzbekistan",
	"VE": "Venezuela", "VN": "Vietnam", "ZA": "South Africa",
}

// CountryName resolves a geocode to its country name. Anything that is not a
// known code is returned unchanged.
func CountryName(label string) string {
	if name, ok := geocodes[strings.ToUpper(strings.TrimSpace(label))]; ok {
		return name
	}
	return label
}
