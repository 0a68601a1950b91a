package io

// Serializable defines the binary encoding/decoding interface. Structures
// implementing it can be passed to NewBinReaderFromBuf/NewBufBinWriter
// array helpers and used throughout the codec, transaction and block
// layers.
type Serializable interface {
	EncodeBinary(*BinWriter)
	DecodeBinary(*BinReader)
}
