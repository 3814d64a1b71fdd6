package whisper

import "os/exec"

// DetectDevice picks the inference device: cuda when an NVIDIA driver is
// present, cpu otherwise. Returns the device and the matching compute type.
func DetectDevice() (device, computeType string) {
	if _, err := exec.LookPath("nvidia-smi"); err == nil {
		return "cuda", "float16"
	}
	return "cpu", "int8"
}
