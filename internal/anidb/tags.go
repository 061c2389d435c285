package anidb

// DefaultSourceTags lists the AniDB tag IDs under the "original work" tag
// branch (https://anidb.net/tag/2609/animetb). Exactly one of these appears
// on a series and names its source material. The set is configurable through
// the tag dictionary file since AniDB occasionally adds entries.
var DefaultSourceTags = map[int]string{
	2609: "original work",
	4424: "American derived",
	7252: "CG collection",
	2800: "game",
	2798: "manga",
	6493: "manhua",
	5010: "manhwa",
	2796: "movie",
	2797: "new",
	2799: "novel",
	7469: "picture book",
	6453: "radio programme",
	6446: "television programme",
	3714: "Western animated cartoon",
	3430: "Western comics",
}
