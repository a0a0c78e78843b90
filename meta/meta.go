// Package meta provides the data model of FLAC metadata blocks.
package meta

// A Header contains information about the type and length of a metadata
// block.
type Header struct {
	// IsLast specifies if the block is the last metadata block.
	IsLast bool
	// Block type.
	Type Type
	// Length of body data in bytes.
	Length int64
}

// Type represents the type of a metadata block.
type Type uint8

// Metadata block types.
const (
	TypeStreamInfo Type = iota
	TypePadding
	TypeApplication
	TypeSeekTable
	TypeVorbisComment
	TypeCueSheet
	TypePicture
)

func (t Type) String() string {
	switch t {
	case TypeStreamInfo:
		return "stream info"
	case TypePadding:
		return "padding"
	case TypeApplication:
		return "application"
	case TypeSeekTable:
		return "seek table"
	case TypeVorbisComment:
		return "vorbis comment"
	case TypeCueSheet:
		return "cue sheet"
	case TypePicture:
		return "picture"
	}
	return "<unknown block type>"
}
