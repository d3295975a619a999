package artifacts

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

type lstmLayerFile struct {
	Units               int         `json:"units"`
	Kernel              [][]float64 `json:"kernel"`
	RecurrentKernel     [][]float64 `json:"recurrent_kernel"`
	Bias                []float64   `json:"bias"`
	Activation          string      `json:"activation"`
	RecurrentActivation string      `json:"recurrent_activation"`
}

type denseLayerFile struct {
	Kernel     [][]float64 `json:"kernel"`
	Bias       []float64   `json:"bias"`
	Activation string      `json:"activation"`
}

type lstmFile struct {
	InputDim int              `json:"input_dim"`
	LSTM     []lstmLayerFile  `json:"lstm"`
	Dense    []denseLayerFile `json:"dense"`
}

type activation func(float64) float64

func sigmoid(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

func hardSigmoid(x float64) float64 { return math.Min(1, math.Max(0, 0.2*x+0.5)) }

func relu(x float64) float64 { return math.Max(0, x) }

func linear(x float64) float64 { return x }

func lookupActivation(name, fallback string) (activation, error) {
	if name == "" {
		name = fallback
	}
	switch name {
	case "sigmoid":
		return sigmoid, nil
	case "hard_sigmoid":
		return hardSigmoid, nil
	case "tanh":
		return math.Tanh, nil
	case "relu":
		return relu, nil
	case "linear":
		return linear, nil
	}
	return nil, fmt.Errorf("unsupported activation %q", name)
}

// lstmLayer holds Keras LSTM weights with gates packed as i, f, c, o.
type lstmLayer struct {
	units     int
	kernel    *mat.Dense // inputDim x 4*units
	recurrent *mat.Dense // units x 4*units
	bias      *mat.VecDense
	act       activation // cell candidate and output
	gate      activation
}

type denseLayer struct {
	kernel *mat.Dense // in x out
	bias   *mat.VecDense
	act    activation
}

// SequenceModel is a stacked LSTM with a dense head producing one value.
// Each Predict starts from zero hidden and cell state, so the model holds
// no state between calls and is safe for concurrent use.
type SequenceModel struct {
	inputDim int
	lstm     []lstmLayer
	dense    []denseLayer
}

// LoadSequenceModel reads an LSTM weight export.
func LoadSequenceModel(path string) (*SequenceModel, error) {
	var f lstmFile
	if err := readJSON(path, &f); err != nil {
		return nil, err
	}
	m, err := newSequenceModel(f)
	if err != nil {
		return nil, fmt.Errorf("invalid sequence model %s: %w", path, err)
	}
	return m, nil
}

func newSequenceModel(f lstmFile) (*SequenceModel, error) {
	if f.InputDim <= 0 {
		return nil, fmt.Errorf("input_dim must be positive")
	}
	if len(f.LSTM) == 0 {
		return nil, fmt.Errorf("no lstm layers")
	}

	m := &SequenceModel{inputDim: f.InputDim}
	in := f.InputDim
	for li, lf := range f.LSTM {
		u := lf.Units
		kernel, err := denseFrom(lf.Kernel, in, 4*u)
		if err != nil {
			return nil, fmt.Errorf("lstm %d kernel: %w", li, err)
		}
		recurrent, err := denseFrom(lf.RecurrentKernel, u, 4*u)
		if err != nil {
			return nil, fmt.Errorf("lstm %d recurrent_kernel: %w", li, err)
		}
		if len(lf.Bias) != 4*u {
			return nil, fmt.Errorf("lstm %d bias: expected %d values, got %d", li, 4*u, len(lf.Bias))
		}
		act, err := lookupActivation(lf.Activation, "tanh")
		if err != nil {
			return nil, fmt.Errorf("lstm %d: %w", li, err)
		}
		gate, err := lookupActivation(lf.RecurrentActivation, "sigmoid")
		if err != nil {
			return nil, fmt.Errorf("lstm %d: %w", li, err)
		}
		m.lstm = append(m.lstm, lstmLayer{
			units:     u,
			kernel:    kernel,
			recurrent: recurrent,
			bias:      mat.NewVecDense(4*u, append([]float64(nil), lf.Bias...)),
			act:       act,
			gate:      gate,
		})
		in = u
	}

	for di, df := range f.Dense {
		if len(df.Bias) == 0 {
			return nil, fmt.Errorf("dense %d: empty bias", di)
		}
		kernel, err := denseFrom(df.Kernel, in, len(df.Bias))
		if err != nil {
			return nil, fmt.Errorf("dense %d kernel: %w", di, err)
		}
		act, err := lookupActivation(df.Activation, "linear")
		if err != nil {
			return nil, fmt.Errorf("dense %d: %w", di, err)
		}
		m.dense = append(m.dense, denseLayer{
			kernel: kernel,
			bias:   mat.NewVecDense(len(df.Bias), append([]float64(nil), df.Bias...)),
			act:    act,
		})
		in = len(df.Bias)
	}

	if in != 1 {
		return nil, fmt.Errorf("model must end in a single output, got %d", in)
	}
	return m, nil
}

func denseFrom(rows [][]float64, r, c int) (*mat.Dense, error) {
	if r <= 0 || c <= 0 {
		return nil, fmt.Errorf("invalid shape %dx%d", r, c)
	}
	if len(rows) != r {
		return nil, fmt.Errorf("expected %d rows, got %d", r, len(rows))
	}
	data := make([]float64, 0, r*c)
	for i, row := range rows {
		if len(row) != c {
			return nil, fmt.Errorf("row %d: expected %d columns, got %d", i, c, len(row))
		}
		data = append(data, row...)
	}
	return mat.NewDense(r, c, data), nil
}

// Predict runs one forward pass over a (1, timesteps, features) input and
// returns the single output.
func (m *SequenceModel) Predict(input [][][]float64) (float64, error) {
	if len(input) != 1 {
		return 0, fmt.Errorf("expected batch size 1, got %d", len(input))
	}
	seq := input[0]
	if len(seq) == 0 {
		return 0, fmt.Errorf("empty sequence")
	}

	xs := make([]*mat.VecDense, len(seq))
	for t, step := range seq {
		if len(step) != m.inputDim {
			return 0, fmt.Errorf("timestep %d: expected %d features, got %d", t, m.inputDim, len(step))
		}
		xs[t] = mat.NewVecDense(m.inputDim, append([]float64(nil), step...))
	}

	for _, layer := range m.lstm {
		xs = layer.run(xs)
	}

	out := xs[len(xs)-1]
	for _, layer := range m.dense {
		out = layer.apply(out)
	}
	return out.AtVec(0), nil
}

// run returns the hidden state after every timestep.
func (l lstmLayer) run(xs []*mat.VecDense) []*mat.VecDense {
	u := l.units
	h := mat.NewVecDense(u, nil)
	c := mat.NewVecDense(u, nil)
	hs := make([]*mat.VecDense, 0, len(xs))

	for _, x := range xs {
		z := mat.NewVecDense(4*u, nil)
		z.MulVec(l.kernel.T(), x)
		rec := mat.NewVecDense(4*u, nil)
		rec.MulVec(l.recurrent.T(), h)
		z.AddVec(z, rec)
		z.AddVec(z, l.bias)

		nextH := mat.NewVecDense(u, nil)
		nextC := mat.NewVecDense(u, nil)
		for j := 0; j < u; j++ {
			in := l.gate(z.AtVec(j))
			forget := l.gate(z.AtVec(u + j))
			cand := l.act(z.AtVec(2*u + j))
			out := l.gate(z.AtVec(3*u + j))
			cj := forget*c.AtVec(j) + in*cand
			nextC.SetVec(j, cj)
			nextH.SetVec(j, out*l.act(cj))
		}
		h, c = nextH, nextC
		hs = append(hs, h)
	}
	return hs
}

func (l denseLayer) apply(x *mat.VecDense) *mat.VecDense {
	_, n := l.kernel.Dims()
	y := mat.NewVecDense(n, nil)
	y.MulVec(l.kernel.T(), x)
	y.AddVec(y, l.bias)
	for i := 0; i < n; i++ {
		y.SetVec(i, l.act(y.AtVec(i)))
	}
	return y
}
