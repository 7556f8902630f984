package file

import (
	"bufio"
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io/ioutil"
	"os"
	"path"
	"regexp"

	"github.com/pkg/errors"
	"github.com/relloyd/hotelpipe/logger"
)

// CSVFileOutput is a Writer that outputs to an OS file that rotates.
type CSVFileOutput struct {
	csvWriter         *csv.Writer
	log               logger.Logger
	directory         string
	prefix            string
	extension         string
	headerRecord      []string
	currentSuffixID   int
	currentName       string
	file              *os.File
	gzWriter          *gzip.Writer
	fWriter           *bufio.Writer
	useGzip           bool
	maxFileRows       int
	currentRowCount   int
	totalRowCount     int
	maxFileBytes      int
	currentBytesCount int
	needNewCSVFile    bool
	needFileCleanup   bool
	needCSVCleanup    bool
	ListOfOutputFiles []string
}

// NewCSVFileOutput creates a new CSV file writer. Supply a directory or empty string to use a new temp directory.
// Set maxFileRows to the number of rows per file (excluding the header) or 0 for a single file.
// Set maxFileBytes to the approx number of bytes per file; this is only checked per row written and
// causes each row to be flushed.
// Setting useGzip compresses the output and makes the extension end with '.gz'.
func NewCSVFileOutput(log logger.Logger, outputDirectory string, fileNamePrefix string, fileNameExtension string, maxFileRows int, maxFileBytes int, useGzip bool) (*CSVFileOutput, error) {
	f := &CSVFileOutput{log: log}
	if outputDirectory == "" {
		var err error
		f.directory, err = ioutil.TempDir("", "hotelpipe-rejects-")
		if err != nil {
			return nil, errors.Wrap(err, "error creating temp directory for CSV files")
		}
	} else {
		if err := os.MkdirAll(outputDirectory, 0750); err != nil {
			return nil, errors.Wrapf(err, "error creating directory %v", outputDirectory)
		}
		f.directory = outputDirectory
	}
	f.prefix = fileNamePrefix
	f.extension = fileNameExtension
	f.maxFileRows = maxFileRows
	f.maxFileBytes = maxFileBytes
	f.useGzip = useGzip
	if useGzip {
		r := regexp.MustCompile(`^(.*?)(\.*)(?i)(gzip|gz){0,}$`) // remove multiple leading '.' and trailing (case insensitive) "gz|gzip"
		f.extension = r.ReplaceAllString(f.extension, "$1.gz")
	}
	f.needNewCSVFile = true
	log.Debug("CSVFileOutput file prefix=", f.prefix, "; extension=", f.extension, "; maxFileRows=", f.maxFileRows, "; maxFileBytes=", f.maxFileBytes, "; useGzip=", f.useGzip)
	return f, nil
}

// Write implements io.Writer for the csv.Writer and counts the bytes written to the current file.
func (f *CSVFileOutput) Write(p []byte) (n int, err error) {
	if f.useGzip {
		n, err = f.fWriter.Write(p)
	} else {
		n, err = f.file.Write(p)
	}
	f.currentBytesCount += n
	if rotateCheck(f.maxFileBytes, f.currentBytesCount) {
		f.needNewCSVFile = true
	}
	return n, err
}

// SetHeader will store the supplied record for output at the top of each created CSV file.
func (f *CSVFileOutput) SetHeader(record []string) {
	f.headerRecord = record
}

// WriteToCSV writes record to the current CSV file, opening a new file first if required.
// The name of a newly created file is returned, else empty string.
func (f *CSVFileOutput) WriteToCSV(record []string) (fileName string, err error) {
	if f.needNewCSVFile {
		if err = f.closeCSVFileAndReset(); err != nil {
			return "", err
		}
		if err = f.createNewCSVWriter(); err != nil {
			return "", err
		}
		fileName = f.currentName
		if f.headerRecord != nil {
			if err = f.csvWriter.Write(f.headerRecord); err != nil {
				return "", errors.Wrap(err, "unable to write header to CSV file")
			}
		}
	}
	if err = f.csvWriter.Write(record); err != nil {
		return "", errors.Wrap(err, "unable to write to CSV file")
	}
	if f.maxFileBytes > 0 {
		// Flush each line so that Write() counts the bytes.
		f.csvWriter.Flush()
	}
	f.currentRowCount++
	f.totalRowCount++
	if rotateCheck(f.maxFileRows, f.currentRowCount) {
		f.needNewCSVFile = true
	}
	return fileName, nil
}

// TotalRows returns the number of records written across all files, excluding headers.
func (f *CSVFileOutput) TotalRows() int {
	return f.totalRowCount
}

func rotateCheck(maxCount int, currentCount int) bool {
	return maxCount > 0 && currentCount >= maxCount
}

// Close flushes the CSV writer and closes the OS file.
func (f *CSVFileOutput) Close() error {
	return f.closeCSVFileAndReset()
}

func (f *CSVFileOutput) fileFlush() error {
	f.csvWriter.Flush()
	if err := f.csvWriter.Error(); err != nil {
		return err
	}
	if f.useGzip {
		if err := f.fWriter.Flush(); err != nil {
			return err
		}
		return f.gzWriter.Flush()
	}
	return nil
}

func (f *CSVFileOutput) fileCleanup() error {
	if f.useGzip {
		if err := f.gzWriter.Close(); err != nil {
			return err
		}
	}
	if err := f.file.Close(); err != nil {
		return errors.Wrapf(err, "unable to close OS file %v", f.currentName)
	}
	return nil
}

// closeCSVFileAndReset flushes and closes any open file and flags that a new file is required.
func (f *CSVFileOutput) closeCSVFileAndReset() error {
	if f.needCSVCleanup {
		f.needCSVCleanup = false
		if err := f.fileFlush(); err != nil {
			return err
		}
	}
	if f.needFileCleanup {
		f.needFileCleanup = false
		if err := f.fileCleanup(); err != nil {
			return err
		}
	}
	f.needNewCSVFile = true
	f.currentRowCount = 0
	f.currentBytesCount = 0
	return nil
}

func (f *CSVFileOutput) createNewCSVWriter() error {
	f.getNextFileName()
	f.log.Info("Creating new CSV file '", f.currentName, "'")
	var err error
	f.file, err = os.OpenFile(f.currentName, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0640)
	if err != nil {
		return errors.Wrapf(err, "unable to create OS file with name %v", f.currentName)
	}
	if f.useGzip {
		f.gzWriter = gzip.NewWriter(f.file)
		f.fWriter = bufio.NewWriter(f.gzWriter)
	}
	f.needFileCleanup = true
	f.csvWriter = csv.NewWriter(f)
	f.needCSVCleanup = true
	f.needNewCSVFile = false
	return nil
}

// getNextFileName generates the next file name and records it in ListOfOutputFiles.
func (f *CSVFileOutput) getNextFileName() {
	f.currentSuffixID++
	f.currentName = path.Join(f.directory, fmt.Sprintf("%v_%06d.%v", f.prefix, f.currentSuffixID, f.extension))
	f.ListOfOutputFiles = append(f.ListOfOutputFiles, f.currentName)
}
