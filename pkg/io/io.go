package io

import (
	"encoding/csv"
	"encoding/gob"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/vmihailenco/msgpack/v5"

	"tourprep/pkg/model"
	"tourprep/pkg/prep"
)

type DataParameters struct {
	DataFile  string
	Delimiter rune
}

// LoadTable reads a delimited file whose first line is the header.
func LoadTable(p DataParameters) (prep.RawTable, error) {
	inputFile, err := os.Open(p.DataFile)
	if err != nil {
		return prep.RawTable{}, errors.Wrapf(err, "error opening file %s", p.DataFile)
	}
	defer inputFile.Close()

	reader := csv.NewReader(inputFile)
	reader.Comma = ','
	if p.Delimiter != 0 {
		reader.Comma = p.Delimiter
	}
	reader.FieldsPerRecord = -1

	//First line is expected to be a header
	header, err := reader.Read()
	if err == io.EOF {
		return prep.RawTable{}, &prep.DataError{Stage: prep.StageLoad, Reason: "input " + p.DataFile + " has no header row"}
	}
	if err != nil {
		return prep.RawTable{}, errors.Wrap(err, "error reading data header")
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	table := prep.RawTable{Header: header}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return prep.RawTable{}, errors.Wrapf(err, "error reading line %d", line)
		}
		row := make([]string, len(header))
		copy(row, record)
		table.Rows = append(table.Rows, row)
	}
	log.Debug().Str("File", p.DataFile).Int("Rows", len(table.Rows)).Int("Columns", len(header)).Msg("Loaded table")
	return table, nil
}

// Codec names an artifact serialization format.
type Codec string

const (
	Gob     Codec = "gob"
	Msgpack Codec = "msgpack"
)

func ParseCodec(name string) (Codec, error) {
	switch Codec(name) {
	case Gob, Msgpack:
		return Codec(name), nil
	}
	return "", errors.Errorf("unknown artifact format %q (expected gob or msgpack)", name)
}

func (c Codec) encode(w io.Writer, v interface{}) error {
	switch c {
	case Msgpack:
		return msgpack.NewEncoder(w).Encode(v)
	default:
		return gob.NewEncoder(w).Encode(v)
	}
}

func (c Codec) decode(r io.Reader, v interface{}) error {
	switch c {
	case Msgpack:
		return msgpack.NewDecoder(r).Decode(v)
	default:
		return gob.NewDecoder(r).Decode(v)
	}
}

// SaveArtifacts writes the split and the metadata bundle. Both are encoded to temporary
// files first and only then moved into place, so a failure leaves neither target updated.
func SaveArtifacts(splitPath, metadataPath string, codec Codec, split *model.Split, metadata *model.Metadata) error {
	splitTmp, err := writeTemp(splitPath, codec, split)
	if err != nil {
		return errors.Wrap(err, "error encoding split")
	}
	defer os.Remove(splitTmp)

	metadataTmp, err := writeTemp(metadataPath, codec, metadata)
	if err != nil {
		return errors.Wrap(err, "error encoding metadata")
	}
	defer os.Remove(metadataTmp)

	if err := os.Rename(splitTmp, splitPath); err != nil {
		return errors.Wrapf(err, "error moving split to %s", splitPath)
	}
	if err := os.Rename(metadataTmp, metadataPath); err != nil {
		if rmErr := os.Remove(splitPath); rmErr != nil {
			log.Error().Err(rmErr).Str("File", splitPath).Msg("Could not roll back split artifact")
		}
		return errors.Wrapf(err, "error moving metadata to %s", metadataPath)
	}
	return nil
}

func writeTemp(target string, codec Codec, v interface{}) (string, error) {
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	file, err := os.CreateTemp(dir, "."+filepath.Base(target)+".tmp-*")
	if err != nil {
		return "", err
	}
	name := file.Name()
	if err := codec.encode(file, v); err != nil {
		file.Close()
		os.Remove(name)
		return "", err
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(name)
		return "", err
	}
	if err := file.Close(); err != nil {
		os.Remove(name)
		return "", err
	}
	return name, nil
}

func LoadSplit(path string, codec Codec) (*model.Split, error) {
	split := model.Split{}
	if err := loadArtifact(path, codec, &split); err != nil {
		return nil, errors.Wrapf(err, "error decoding split from %s", path)
	}
	return &split, nil
}

func LoadMetadata(path string, codec Codec) (*model.Metadata, error) {
	metadata := model.NewMetadata()
	if err := loadArtifact(path, codec, metadata); err != nil {
		return nil, errors.Wrapf(err, "error decoding metadata from %s", path)
	}
	return metadata, nil
}

func loadArtifact(path string, codec Codec, v interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return codec.decode(file, v)
}
