package s3

import (
	"fmt"
	"net/url"
	"strings"
)

// AwsS3Object is a bucket and key parsed from s3://<bucket>/<key>.
type AwsS3Object struct {
	Bucket string `errorTxt:"bucket name" mandatory:"yes"`
	Key    string `errorTxt:"object key" mandatory:"yes"`
	Region string `errorTxt:"bucket region" mandatory:"yes"`
}

func (o AwsS3Object) String() string {
	return fmt.Sprintf("s3://%v/%v", o.Bucket, o.Key)
}

// IsS3URL reports whether s uses the s3:// scheme.
func IsS3URL(s string) bool {
	return strings.HasPrefix(strings.ToLower(s), "s3://")
}

// ParseObjectURL expects objectURL of the form [s3://]<bucket>/<key> and a non-empty region.
func ParseObjectURL(objectURL string, region string) (retval AwsS3Object, err error) {
	expectedScheme := "s3"
	u, err := url.Parse(objectURL)
	if err != nil {
		return retval, fmt.Errorf("error parsing S3 URL: %v", err)
	}
	if u.Scheme != "" && u.Scheme != expectedScheme {
		return retval, fmt.Errorf("expected S3 URL scheme %q but got %q", expectedScheme, u.Scheme)
	}
	if region == "" {
		return retval, fmt.Errorf("value expected for bucket region")
	}
	retval.Bucket = u.Host
	if retval.Bucket == "" {
		return retval, fmt.Errorf("S3 URL %q is missing a bucket name", objectURL)
	}
	retval.Key = strings.Trim(u.Path, "/")
	if retval.Key == "" {
		return retval, fmt.Errorf("S3 URL %q is missing an object key", objectURL)
	}
	retval.Region = region
	return
}
