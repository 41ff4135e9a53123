package core

// Every domain type gets an XxxMUS value with Marshal/Unmarshal/Size/Skip.
// The domain types are few and stable, so the serializers are written by
// hand with the mus-go primitive serializers instead of being generated.

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// Serializers for the domain types. Values are stored in BadgerDB using
// these codecs via the storage package wrappers.
var (
	IDMUS            = idMUS{}
	KnowledgeItemMUS = knowledgeItemMUS{}
	CategoryMUS      = categoryMUS{}
	TagMUS           = tagMUS{}
	RelationshipMUS  = relationshipMUS{}

	stringSliceMUS = ord.NewSliceSer[string](ord.String)
	metadataMUS    = ord.NewMapSer[string, string](ord.String, ord.String)
	vectorMUS      = ord.NewSliceSer[float32](raw.Float32)
	timeMUS        = unixMicroMUS{}
)

type idMUS struct{}

func (idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	u, n, err := varint.Uint64.Unmarshal(bs)
	return ID(u), n, err
}

func (idMUS) Size(v ID) (n int) {
	return varint.Uint64.Size(uint64(v))
}

func (idMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

// unixMicroMUS encodes time.Time as a varint Unix-microsecond timestamp,
// matching the micro precision the BadgerDB date index keys use.
type unixMicroMUS struct{}

func (unixMicroMUS) Marshal(v time.Time, bs []byte) (n int) {
	return varint.Int64.Marshal(v.UnixMicro(), bs)
}

func (unixMicroMUS) Unmarshal(bs []byte) (v time.Time, n int, err error) {
	m, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(m).UTC(), n, nil
}

func (unixMicroMUS) Size(v time.Time) (n int) {
	return varint.Int64.Size(v.UnixMicro())
}

func (unixMicroMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int64.Skip(bs)
}

type knowledgeItemMUS struct{}

func (knowledgeItemMUS) Marshal(v KnowledgeItem, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Title, bs[n:])
	n += ord.String.Marshal(v.Content, bs[n:])
	n += ord.String.Marshal(string(v.SourceType), bs[n:])
	n += ord.String.Marshal(v.SourcePath, bs[n:])
	n += stringSliceMUS.Marshal(v.Categories, bs[n:])
	n += stringSliceMUS.Marshal(v.Tags, bs[n:])
	n += metadataMUS.Marshal(v.Metadata, bs[n:])
	n += timeMUS.Marshal(v.CreatedAt, bs[n:])
	n += timeMUS.Marshal(v.UpdatedAt, bs[n:])
	n += vectorMUS.Marshal(v.Vector, bs[n:])
	return n
}

func (knowledgeItemMUS) Unmarshal(bs []byte) (v KnowledgeItem, n int, err error) {
	var n1 int
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.Title, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Content, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	var st string
	if st, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	v.SourceType = SourceType(st)
	n += n1
	if v.SourcePath, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Categories, n1, err = stringSliceMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Tags, n1, err = stringSliceMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Metadata, n1, err = metadataMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.CreatedAt, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.UpdatedAt, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Vector, n1, err = vectorMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return v, n, nil
}

func (knowledgeItemMUS) Size(v KnowledgeItem) (n int) {
	n = IDMUS.Size(v.Id)
	n += ord.String.Size(v.Title)
	n += ord.String.Size(v.Content)
	n += ord.String.Size(string(v.SourceType))
	n += ord.String.Size(v.SourcePath)
	n += stringSliceMUS.Size(v.Categories)
	n += stringSliceMUS.Size(v.Tags)
	n += metadataMUS.Size(v.Metadata)
	n += timeMUS.Size(v.CreatedAt)
	n += timeMUS.Size(v.UpdatedAt)
	n += vectorMUS.Size(v.Vector)
	return n
}

func (s knowledgeItemMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}

type categoryMUS struct{}

func (categoryMUS) Marshal(v Category, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Name, bs[n:])
	n += ord.String.Marshal(v.Description, bs[n:])
	n += IDMUS.Marshal(v.ParentId, bs[n:])
	n += raw.Float64.Marshal(v.Confidence, bs[n:])
	n += timeMUS.Marshal(v.InsertedAt, bs[n:])
	n += timeMUS.Marshal(v.UpdatedAt, bs[n:])
	return n
}

func (categoryMUS) Unmarshal(bs []byte) (v Category, n int, err error) {
	var n1 int
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.Name, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Description, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.ParentId, n1, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Confidence, n1, err = raw.Float64.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.InsertedAt, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.UpdatedAt, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return v, n, nil
}

func (categoryMUS) Size(v Category) (n int) {
	n = IDMUS.Size(v.Id)
	n += ord.String.Size(v.Name)
	n += ord.String.Size(v.Description)
	n += IDMUS.Size(v.ParentId)
	n += raw.Float64.Size(v.Confidence)
	n += timeMUS.Size(v.InsertedAt)
	n += timeMUS.Size(v.UpdatedAt)
	return n
}

func (s categoryMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}

type tagMUS struct{}

func (tagMUS) Marshal(v Tag, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Name, bs[n:])
	n += ord.String.Marshal(v.Color, bs[n:])
	n += varint.Int.Marshal(v.UsageCount, bs[n:])
	n += timeMUS.Marshal(v.InsertedAt, bs[n:])
	n += timeMUS.Marshal(v.UpdatedAt, bs[n:])
	return n
}

func (tagMUS) Unmarshal(bs []byte) (v Tag, n int, err error) {
	var n1 int
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.Name, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Color, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.UsageCount, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.InsertedAt, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.UpdatedAt, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return v, n, nil
}

func (tagMUS) Size(v Tag) (n int) {
	n = IDMUS.Size(v.Id)
	n += ord.String.Size(v.Name)
	n += ord.String.Size(v.Color)
	n += varint.Int.Size(v.UsageCount)
	n += timeMUS.Size(v.InsertedAt)
	n += timeMUS.Size(v.UpdatedAt)
	return n
}

func (s tagMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}

type relationshipMUS struct{}

func (relationshipMUS) Marshal(v Relationship, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += IDMUS.Marshal(v.SourceId, bs[n:])
	n += IDMUS.Marshal(v.TargetId, bs[n:])
	n += varint.Int.Marshal(int(v.Type), bs[n:])
	n += raw.Float64.Marshal(v.Strength, bs[n:])
	n += ord.String.Marshal(v.Description, bs[n:])
	n += timeMUS.Marshal(v.InsertedAt, bs[n:])
	return n
}

func (relationshipMUS) Unmarshal(bs []byte) (v Relationship, n int, err error) {
	var n1 int
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.SourceId, n1, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.TargetId, n1, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	var rt int
	if rt, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	v.Type = RelationshipType(rt)
	n += n1
	if v.Strength, n1, err = raw.Float64.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Description, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.InsertedAt, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return v, n, nil
}

func (relationshipMUS) Size(v Relationship) (n int) {
	n = IDMUS.Size(v.Id)
	n += IDMUS.Size(v.SourceId)
	n += IDMUS.Size(v.TargetId)
	n += varint.Int.Size(int(v.Type))
	n += raw.Float64.Size(v.Strength)
	n += ord.String.Size(v.Description)
	n += timeMUS.Size(v.InsertedAt)
	return n
}

func (s relationshipMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}
