package extract

import (
	"bytes"
	"compress/gzip"
	"io"
	"io/ioutil"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/relloyd/hotelpipe/aws/s3"
)

// openSource returns a reader over the extract named by cfg.Source.
// Sources are a local path or s3://<bucket>/<key>; a .gz suffix is decompressed.
func openSource(cfg *Config) (io.ReadCloser, error) {
	var rc io.ReadCloser
	if s3.IsS3URL(cfg.Source) {
		region := cfg.S3Region
		if region == "" {
			region = os.Getenv("AWS_REGION")
		}
		obj, err := s3.ParseObjectURL(cfg.Source, region)
		if err != nil {
			return nil, err
		}
		getter := cfg.S3Getter
		if getter == nil {
			getter = s3.NewBasicClient(obj.Bucket, obj.Region, "")
		}
		cfg.Log.Debug("fetching extract ", obj)
		b, err := getter.Get(obj.Key)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to fetch %v", obj)
		}
		rc = ioutil.NopCloser(bytes.NewReader(b))
	} else {
		f, err := os.Open(cfg.Source)
		if err != nil {
			return nil, errors.Wrap(err, "unable to open extract")
		}
		rc = f
	}
	if !strings.HasSuffix(strings.ToLower(cfg.Source), ".gz") {
		return rc, nil
	}
	gz, err := gzip.NewReader(rc)
	if err != nil {
		rc.Close()
		return nil, errors.Wrap(err, "unable to read gzip extract")
	}
	return &gzipReadCloser{Reader: gz, under: rc}, nil
}

type gzipReadCloser struct {
	*gzip.Reader
	under io.Closer
}

func (g *gzipReadCloser) Close() error {
	err := g.Reader.Close()
	if err2 := g.under.Close(); err == nil {
		err = err2
	}
	return err
}
