// Package datecode encodes and decodes DTR date codes, the compact
// shipment/receipt timing marks used on transportation control documents.
//
// # Code Shapes
//
//	Air      HDD   hour letter + last two digits of the day of year, e.g. "A01"
//	Surface  DDD   three-digit day of year, e.g. "001"
//	Ocean    YDDD  last digit of the year + three-digit day of year, e.g. "6001"
//
// The day of year is the 1-based ordinal day in the proleptic Gregorian
// calendar, zero-padded to three digits. Day 366 of a leap year stays "366"
// for Surface and Ocean and truncates to "66" for Air.
//
// # Hour Alphabet
//
// Air codes carry the UTC hour as a single letter. The 24 letters run A..Z
// with I and O skipped so they cannot be misread as 1 and 0:
//
//	A B C D E F G H J K L M N P Q R S T U V W X Y Z
//	0 1 2 3 4 5 6 7 8 9 ...                       23
//
// # Reference Frames
//
// Air codes are always computed and decoded in UTC. Surface and Ocean codes use
// the location carried by the supplied time: [Encode] reads the day from the
// caller's clock and [Decode] resets candidates to midnight in the location of
// now. The two frames differ on purpose; changing either would change the
// meaning of codes already printed on documents.
//
// # Decoding
//
// Codes are lossy. [Decode] sniffs the shape from the code and reconstructs
// every calendar date consistent with it:
//
//   - Ocean resolves to the most recent year, not after now, whose last digit
//     matches, so the result lies 0 to 9 years in the past.
//   - Surface resolves to the current year of now, with no year search.
//   - Air scans every UTC hour from one year before now through now and keeps
//     each instant whose hour and truncated day match, oldest first. When now
//     is Feb 29 the scan starts on Feb 28 of the previous year.
//
// Code length is counted in characters after trimming spaces. A 2-character
// input such as "é1" is rejected with [ErrInvalidLength]; non-ASCII characters
// in a code of valid length fail with [ErrInvalidNumeric] or
// [ErrInvalidHourCode] like any other bad character.
//
// Callers that want the single most likely date use [MostRecent].
package datecode
