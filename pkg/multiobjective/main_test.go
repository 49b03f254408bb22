package multiobjective

import (
	"flag"
	"os"
	"testing"

	"k8s.io/klog/v2"
)

func TestMain(m *testing.M) {
	fs := flag.NewFlagSet("klog", flag.ExitOnError)
	klog.InitFlags(fs)
	// Exercise the progress logging without flooding the test output.
	_ = fs.Set("v", "3")
	_ = fs.Set("logtostderr", "false")
	_ = fs.Set("stderrthreshold", "FATAL")

	code := m.Run()
	klog.Flush()
	os.Exit(code)
}
