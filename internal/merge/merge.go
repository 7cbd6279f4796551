package merge

import (
	"bufio"
	"container/heap"
	"encoding/binary"
	"fmt"
	"log/slog"

	"github.com/dchest/safefile"
	"github.com/wizenheimer/cometindex/internal/postings"
)

// Stats is written to collection_stats.txt.
type Stats struct {
	TotalTerms  int
	TotalBlocks int
}

// Merge performs a k-way merge of run_000000.bin .. run_{numRuns-1}.bin under
// buildDir, emitting inverted_index.bin, lexicon.txt, metadata.bin, and
// collection_stats.txt. Final files are written via safefile so a process
// that dies mid-merge never leaves a half-written index behind.
func Merge(buildDir string, numRuns int, logger *slog.Logger) (Stats, error) {
	if logger == nil {
		logger = slog.Default()
	}

	runs := make([]*runReader, numRuns)
	for i := 0; i < numRuns; i++ {
		r, err := openRun(fmt.Sprintf("%s/run_%06d.bin", buildDir, i))
		if err != nil {
			return Stats{}, err
		}
		runs[i] = r
	}
	defer func() {
		for _, r := range runs {
			r.close()
		}
	}()

	invF, err := safefile.Create(buildDir+"/inverted_index.bin", 0o644)
	if err != nil {
		return Stats{}, fmt.Errorf("merge: creating inverted_index.bin: %w", err)
	}
	defer invF.Close()
	lexF, err := safefile.Create(buildDir+"/lexicon.txt", 0o644)
	if err != nil {
		return Stats{}, fmt.Errorf("merge: creating lexicon.txt: %w", err)
	}
	defer lexF.Close()

	invW := bufio.NewWriter(invF)
	lexW := bufio.NewWriter(lexF)

	h := &entryHeap{}
	for i, r := range runs {
		term, doc, freq, ok, err := r.readNext()
		if err != nil {
			return Stats{}, err
		}
		if ok {
			heap.Push(h, entry{term: term, doc: doc, freq: freq, runIdx: i})
		}
	}

	skip := &postings.SkipTable{}
	df := make(map[string]int32)

	var curTerm string
	var tDocs, tFreqs []int32
	var invOffset, startOff int64
	var startBlk int32
	var np int64
	nTerms := 0

	for h.Len() > 0 {
		e := heap.Pop(h).(entry)

		if curTerm != "" && e.term != curTerm {
			if len(tDocs) > 0 {
				if err := writeBlock(invW, tDocs, tFreqs, skip, &invOffset); err != nil {
					return Stats{}, err
				}
				tDocs, tFreqs = tDocs[:0], tFreqs[:0]
			}
			if err := writeLexiconLine(lexW, curTerm, startOff, startBlk, np, df[curTerm]); err != nil {
				return Stats{}, err
			}
			startOff = invOffset
			startBlk = int32(skip.NumBlocks())
			nTerms++
			if nTerms%50_000 == 0 {
				logger.Info("merge progress", "terms_merged", nTerms)
			}
		}

		if e.term != curTerm {
			curTerm = e.term
			df[curTerm] = 0
			np = 0
		}

		tDocs = append(tDocs, e.doc)
		tFreqs = append(tFreqs, e.freq)
		df[curTerm]++
		np++

		if len(tDocs) == postings.BlockSize {
			if err := writeBlock(invW, tDocs, tFreqs, skip, &invOffset); err != nil {
				return Stats{}, err
			}
			tDocs, tFreqs = tDocs[:0], tFreqs[:0]
		}

		term, doc, freq, ok, err := runs[e.runIdx].readNext()
		if err != nil {
			return Stats{}, err
		}
		if ok {
			heap.Push(h, entry{term: term, doc: doc, freq: freq, runIdx: e.runIdx})
		}
	}

	if curTerm != "" {
		if len(tDocs) > 0 {
			if err := writeBlock(invW, tDocs, tFreqs, skip, &invOffset); err != nil {
				return Stats{}, err
			}
		}
		if err := writeLexiconLine(lexW, curTerm, startOff, startBlk, np, df[curTerm]); err != nil {
			return Stats{}, err
		}
		nTerms++
	}

	if err := invW.Flush(); err != nil {
		return Stats{}, fmt.Errorf("merge: flushing inverted_index.bin: %w", err)
	}
	if err := lexW.Flush(); err != nil {
		return Stats{}, fmt.Errorf("merge: flushing lexicon.txt: %w", err)
	}
	if err := invF.Commit(); err != nil {
		return Stats{}, fmt.Errorf("merge: committing inverted_index.bin: %w", err)
	}
	if err := lexF.Commit(); err != nil {
		return Stats{}, fmt.Errorf("merge: committing lexicon.txt: %w", err)
	}

	if err := writeMetadataBin(buildDir, skip); err != nil {
		return Stats{}, err
	}

	stats := Stats{TotalTerms: nTerms, TotalBlocks: skip.NumBlocks()}
	if err := writeCollectionStats(buildDir, stats); err != nil {
		return Stats{}, err
	}

	logger.Info("merge complete", "total_terms", stats.TotalTerms, "total_blocks", stats.TotalBlocks)
	return stats, nil
}

func writeLexiconLine(w *bufio.Writer, term string, startOff int64, startBlk int32, totalPostings int64, df int32) error {
	_, err := fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\n", term, startOff, startBlk, totalPostings, df)
	if err != nil {
		return fmt.Errorf("merge: writing lexicon line: %w", err)
	}
	return nil
}

func writeMetadataBin(buildDir string, skip *postings.SkipTable) error {
	f, err := safefile.Create(buildDir+"/metadata.bin", 0o644)
	if err != nil {
		return fmt.Errorf("merge: creating metadata.bin: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	var hdr [4]byte
	binary.LittleEndian.PutUint32(hdr[:], uint32(skip.NumBlocks()))
	if _, err := w.Write(hdr[:]); err != nil {
		return fmt.Errorf("merge: writing num_blocks: %w", err)
	}
	for _, arr := range [][]int32{skip.LastDocID, skip.DocBytes, skip.FreqBytes} {
		for _, v := range arr {
			binary.LittleEndian.PutUint32(hdr[:], uint32(v))
			if _, err := w.Write(hdr[:]); err != nil {
				return fmt.Errorf("merge: writing metadata.bin: %w", err)
			}
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("merge: flushing metadata.bin: %w", err)
	}
	return f.Commit()
}

func writeCollectionStats(buildDir string, s Stats) error {
	f, err := safefile.Create(buildDir+"/collection_stats.txt", 0o644)
	if err != nil {
		return fmt.Errorf("merge: creating collection_stats.txt: %w", err)
	}
	defer f.Close()
	if _, err := fmt.Fprintf(f, "total_terms\t%d\ntotal_blocks\t%d\n", s.TotalTerms, s.TotalBlocks); err != nil {
		return fmt.Errorf("merge: writing collection_stats.txt: %w", err)
	}
	return f.Commit()
}
