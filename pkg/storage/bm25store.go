package storage

import (
	"encoding/binary"

	"github.com/cuemby/helixdb/pkg/herrors"
	"github.com/cuemby/helixdb/pkg/types"
)

// Posting is one (doc id, term frequency) pair in a term's postings list.
type Posting struct {
	DocID types.ID
	TF    uint32
}

func postingsKey(term string) []byte { return []byte("t:" + term) }

// GetPostings returns term's postings list, or nil if the term has never
// been indexed.
func (r *ReadTxn) GetPostings(term string) ([]Posting, error) {
	data := r.tx.Bucket(bucketBM25Postings).Get(postingsKey(term))
	if data == nil {
		return nil, nil
	}
	n := len(data) / 20
	out := make([]Posting, n)
	for i := 0; i < n; i++ {
		off := i * 20
		var id types.ID
		if err := id.UnmarshalBinary(data[off : off+16]); err != nil {
			return nil, err
		}
		tf := binary.BigEndian.Uint32(data[off+16 : off+20])
		out[i] = Posting{DocID: id, TF: tf}
	}
	return out, nil
}

// SetPostings replaces term's entire postings list.
func (w *WriteTxn) SetPostings(term string, postings []Posting) error {
	buf := make([]byte, 0, len(postings)*20)
	for _, p := range postings {
		buf = append(buf, idBytes(p.DocID)...)
		var tfBuf [4]byte
		binary.BigEndian.PutUint32(tfBuf[:], p.TF)
		buf = append(buf, tfBuf[:]...)
	}
	if err := w.tx.Bucket(bucketBM25Postings).Put(postingsKey(term), buf); err != nil {
		return herrors.Wrap(herrors.Transient, "writing bm25 postings", err)
	}
	return nil
}

// AppendPosting appends (docID, tf) to term's postings list.
func (w *WriteTxn) AppendPosting(term string, docID types.ID, tf uint32) error {
	existing, err := w.GetPostings(term)
	if err != nil {
		return err
	}
	return w.SetPostings(term, append(existing, Posting{DocID: docID, TF: tf}))
}

// GetDocLength returns the stored token length of docID.
func (r *ReadTxn) GetDocLength(docID types.ID) (uint32, bool, error) {
	data := r.tx.Bucket(bucketBM25DocLengths).Get(idBytes(docID))
	if data == nil {
		return 0, false, nil
	}
	return binary.BigEndian.Uint32(data), true, nil
}

// SetDocLength records docID's token length.
func (w *WriteTxn) SetDocLength(docID types.ID, length uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], length)
	if err := w.tx.Bucket(bucketBM25DocLengths).Put(idBytes(docID), buf[:]); err != nil {
		return herrors.Wrap(herrors.Transient, "writing bm25 doc length", err)
	}
	return nil
}

// BM25Stats is the corpus-wide statistics BM25 scoring needs.
type BM25Stats struct {
	NDocs  uint64
	SumLen uint64
}

// AvgDL returns the average document length, or 0 for an empty corpus.
func (s BM25Stats) AvgDL() float64 {
	if s.NDocs == 0 {
		return 0
	}
	return float64(s.SumLen) / float64(s.NDocs)
}

var bm25StatsKey = []byte("stats")

// GetStats returns the current corpus statistics.
func (r *ReadTxn) GetStats() (BM25Stats, error) {
	data := r.tx.Bucket(bucketBM25Stats).Get(bm25StatsKey)
	if data == nil {
		return BM25Stats{}, nil
	}
	return BM25Stats{
		NDocs:  binary.BigEndian.Uint64(data[0:8]),
		SumLen: binary.BigEndian.Uint64(data[8:16]),
	}, nil
}

// SetStats persists updated corpus statistics.
func (w *WriteTxn) SetStats(s BM25Stats) error {
	buf := make([]byte, 16)
	binary.BigEndian.PutUint64(buf[0:8], s.NDocs)
	binary.BigEndian.PutUint64(buf[8:16], s.SumLen)
	if err := w.tx.Bucket(bucketBM25Stats).Put(bm25StatsKey, buf); err != nil {
		return herrors.Wrap(herrors.Transient, "writing bm25 stats", err)
	}
	return nil
}
