// Command lz4x compresses and decompresses files in the LZ4 block/frame
// format, using a suffix-array match finder and an optimal parser instead
// of the greedy matching most LZ4 encoders use, trading encode speed for
// compression ratio.
package main

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nwidger/lz4x"
)

var (
	flagDecompress bool
	flagVerbose    bool
	flagRaw        bool
	flagIndep      bool
	flagCompare    bool
	flagBlockSize  int
	flagDictFile   string
)

func main() {
	root := &cobra.Command{
		Use:   "lz4x [flags] <input> <output>",
		Short: "LZ4-compatible compressor tuned for ratio over speed",
		Args:  cobra.ExactArgs(2),
		RunE:  run,
	}

	flags := root.Flags()
	flags.BoolVarP(&flagDecompress, "decompress", "d", false, "decompress the input instead of compressing it")
	flags.BoolVarP(&flagVerbose, "verbose", "v", false, "print a summary when done")
	flags.BoolVarP(&flagRaw, "raw", "r", false, "read or write a single raw block with no frame header")
	flags.BoolVar(&flagIndep, "independent-blocks", false, "compress blocks independently instead of chaining them")
	flags.BoolVarP(&flagCompare, "compare", "c", false, "after compressing, decompress the result and verify it against the input")
	flags.IntVarP(&flagBlockSize, "block-size-code", "B", 7, "block max size code, 4 (64 Kb) through 7 (4 Mb)")
	flags.StringVarP(&flagDictFile, "dictionary", "D", "", "dictionary file to seed the match window with")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(100)
	}
}

func run(cmd *cobra.Command, args []string) error {
	inPath, outPath := args[0], args[1]

	logger := zap.NewNop()
	if flagVerbose {
		cfg := zap.NewDevelopmentConfig()
		l, err := cfg.Build()
		if err == nil {
			logger = l
		}
	}
	defer logger.Sync()

	start := time.Now()

	if flagDecompress {
		opts := lz4x.DecompressOptions{RawBlock: flagRaw, Logger: logger}

		stats, err := lz4x.DecompressFile(inPath, outPath, flagDictFile, opts)
		if err != nil {
			return err
		}

		if flagVerbose {
			printSummary(inPath, start, stats)
		}
		return nil
	}

	opts := lz4x.CompressOptions{
		BlockMaxCode:      lz4x.BlockMaxCode(flagBlockSize),
		IndependentBlocks: flagIndep,
		RawBlock:          flagRaw,
		Logger:            logger,
	}

	var stats lz4x.Stats

	if flagCompare {
		// Verify the compressed output by decompressing it again and
		// diffing against the original input, the same self-check
		// lz4ultra's CLI offers with its -c flag.
		if flagDictFile != "" {
			dict, err := loadDictionary(flagDictFile)
			if err != nil {
				return err
			}
			opts.Dictionary = dict
		}

		inData, err := os.ReadFile(inPath)
		if err != nil {
			return fmt.Errorf("reading input for verification: %w", err)
		}

		outFile, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("opening output: %w", err)
		}
		defer outFile.Close()

		var compressed bytes.Buffer
		stats, err = lz4x.CompressStream(&compressed, bytes.NewReader(inData), opts)
		if err != nil {
			return err
		}
		if _, err := outFile.Write(compressed.Bytes()); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}

		sink := lz4x.NewComparingSink(bytes.NewReader(inData))
		decOpts := lz4x.DecompressOptions{RawBlock: flagRaw, Dictionary: opts.Dictionary, Logger: logger}
		if _, err := lz4x.DecompressStream(sink, bytes.NewReader(compressed.Bytes()), decOpts); err != nil {
			return fmt.Errorf("verification decompress failed: %w", err)
		}
		if err := sink.Finish(); err != nil {
			return fmt.Errorf("verification failed: %w", err)
		}
	} else {
		var err error
		stats, err = lz4x.CompressFile(inPath, outPath, flagDictFile, opts)
		if err != nil {
			return err
		}
	}

	if flagVerbose {
		printSummary(inPath, start, stats)
	}
	return nil
}

func loadDictionary(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dictionary: %w", err)
	}
	defer f.Close()
	return lz4x.LoadDictionary(f)
}

func printSummary(path string, start time.Time, stats lz4x.Stats) {
	elapsed := time.Since(start).Seconds()
	var bytesPerToken int64
	if stats.CommandCount > 0 {
		bytesPerToken = stats.OriginalSize / int64(stats.CommandCount)
	}
	ratio := 0.0
	if stats.OriginalSize > 0 {
		ratio = float64(stats.CompressedSize) * 100.0 / float64(stats.OriginalSize)
	}

	fmt.Printf("%s: %s in %.2fs, %d tokens (%s/token), %s into %s ==> %.2f%%\n",
		path, humanize.Bytes(uint64(stats.OriginalSize)), elapsed,
		stats.CommandCount, humanize.Bytes(uint64(bytesPerToken)),
		humanize.Bytes(uint64(stats.OriginalSize)), humanize.Bytes(uint64(stats.CompressedSize)),
		ratio)
}
