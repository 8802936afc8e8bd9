package constants

// IndexFileName is the on-disk name of the serialized Map-TC that maps
// user keys to timestamped keys.
const IndexFileName = "index.idx"

// DeleteFileName is the on-disk name of the serialized Ordered-TC holding
// timestamped keys awaiting physical removal by the compactor.
const DeleteFileName = "delete.del"

// LogFileExt is the extension of the single active (writable) segment.
const LogFileExt = ".log"

// DataFileExt is the extension of immutable, rolled segments.
const DataFileExt = ".cky"
