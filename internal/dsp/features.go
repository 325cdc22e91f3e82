// Package dsp holds the signal-processing half of the decode pipeline:
// log-mel feature extraction and greedy collapse decoding of frame
// classifier output. Everything here is stateless and reentrant.
package dsp

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/zaf/resample"
	"gonum.org/v1/gonum/dsp/fourier"
)

const (
	DefaultSampleRate = 16000
	DefaultNumMels    = 80

	fftSize = 400
	hopSize = 200

	// Power floor before the log, keeps silence finite.
	logFloor = 1e-10
)

// FeatureExtractor converts mono PCM into a (frames, mels) log-mel energy
// matrix. A single instance is shared by all sessions.
type FeatureExtractor struct {
	sampleRate int
	numMels    int

	window     []float64
	filterbank [][]float64
	fft        *fourier.FFT
}

func NewFeatureExtractor(sampleRate, numMels int) *FeatureExtractor {
	return &FeatureExtractor{
		sampleRate: sampleRate,
		numMels:    numMels,
		window:     hannWindow(fftSize),
		filterbank: melFilterbank(numMels, fftSize, sampleRate),
		fft:        fourier.NewFFT(fftSize),
	}
}

// MixToMono averages equally sized channels into one.
func MixToMono(channels [][]float32) []float32 {
	if len(channels) == 1 {
		return channels[0]
	}
	mono := make([]float32, len(channels[0]))
	for _, ch := range channels {
		for i := range mono {
			mono[i] += ch[i]
		}
	}
	n := float32(len(channels))
	for i := range mono {
		mono[i] /= n
	}
	return mono
}

// Extract mixes the channels to mono, resamples to the extractor's rate when
// needed, and returns the log-mel spectrogram transposed to (frame, mel)
// orientation. The output is deterministic for identical input samples and
// rate.
func (e *FeatureExtractor) Extract(channels [][]float32, sourceRate int) ([][]float64, error) {
	if len(channels) == 0 || len(channels[0]) == 0 {
		return nil, fmt.Errorf("empty pcm input")
	}
	pcm := MixToMono(channels)
	if sourceRate != e.sampleRate {
		converted, err := resampleTo(pcm, sourceRate, e.sampleRate)
		if err != nil {
			return nil, fmt.Errorf("resample %d -> %d: %w", sourceRate, e.sampleRate, err)
		}
		pcm = converted
	}

	padded := reflectPad(pcm, fftSize/2)
	numFrames := 0
	if len(padded) >= fftSize {
		numFrames = 1 + (len(padded)-fftSize)/hopSize
	}

	frame := make([]float64, fftSize)
	coeffs := make([]complex128, fftSize/2+1)
	power := make([]float64, fftSize/2+1)

	features := make([][]float64, numFrames)
	for t := 0; t < numFrames; t++ {
		off := t * hopSize
		for i := 0; i < fftSize; i++ {
			frame[i] = float64(padded[off+i]) * e.window[i]
		}
		coeffs = e.fft.Coefficients(coeffs, frame)
		for i, c := range coeffs {
			re, im := real(c), imag(c)
			power[i] = re*re + im*im
		}
		row := make([]float64, e.numMels)
		for m := 0; m < e.numMels; m++ {
			var energy float64
			for i, w := range e.filterbank[m] {
				if w != 0 {
					energy += w * power[i]
				}
			}
			row[m] = 10 * math.Log10(math.Max(energy, logFloor))
		}
		features[t] = row
	}
	return features, nil
}

func resampleTo(pcm []float32, sourceRate, targetRate int) ([]float32, error) {
	in := make([]byte, 0, len(pcm)*4)
	buf := bytes.NewBuffer(in)
	if err := binary.Write(buf, binary.LittleEndian, pcm); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	r, err := resample.New(&out, float64(sourceRate), float64(targetRate), 1, resample.F32, resample.HighQ)
	if err != nil {
		return nil, err
	}
	if _, err := r.Write(buf.Bytes()); err != nil {
		_ = r.Close()
		return nil, err
	}
	if err := r.Close(); err != nil {
		return nil, err
	}

	converted := make([]float32, out.Len()/4)
	if err := binary.Read(&out, binary.LittleEndian, converted); err != nil {
		return nil, err
	}
	return converted, nil
}

func reflectPad(pcm []float32, pad int) []float32 {
	if pad == 0 || len(pcm) < 2 {
		return pcm
	}
	if pad >= len(pcm) {
		pad = len(pcm) - 1
	}
	out := make([]float32, 0, len(pcm)+2*pad)
	for i := pad; i > 0; i-- {
		out = append(out, pcm[i])
	}
	out = append(out, pcm...)
	for i := len(pcm) - 2; i >= len(pcm)-1-pad; i-- {
		out = append(out, pcm[i])
	}
	return out
}

func hannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n)))
	}
	return w
}

// melFilterbank builds numMels triangular filters over the FFT bins using the
// HTK mel scale, covering 0 Hz to the Nyquist frequency.
func melFilterbank(numMels, fftSize, sampleRate int) [][]float64 {
	numBins := fftSize/2 + 1
	minMel := hzToMel(0)
	maxMel := hzToMel(float64(sampleRate) / 2)

	melPoints := make([]float64, numMels+2)
	for i := range melPoints {
		melPoints[i] = melToHz(minMel + (maxMel-minMel)*float64(i)/float64(numMels+1))
	}

	binFreqs := make([]float64, numBins)
	for i := range binFreqs {
		binFreqs[i] = float64(i) * float64(sampleRate) / float64(fftSize)
	}

	fb := make([][]float64, numMels)
	for m := 0; m < numMels; m++ {
		left, center, right := melPoints[m], melPoints[m+1], melPoints[m+2]
		row := make([]float64, numBins)
		for i, f := range binFreqs {
			switch {
			case f <= left || f >= right:
				// outside the triangle
			case f <= center:
				row[i] = (f - left) / (center - left)
			default:
				row[i] = (right - f) / (right - center)
			}
		}
		fb[m] = row
	}
	return fb
}

func hzToMel(hz float64) float64 {
	return 2595 * math.Log10(1+hz/700)
}

func melToHz(mel float64) float64 {
	return 700 * (math.Pow(10, mel/2595) - 1)
}
