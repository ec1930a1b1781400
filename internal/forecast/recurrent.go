package forecast

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

const (
	learningRate = 0.001
	adamBeta1    = 0.9
	adamBeta2    = 0.999
	adamEpsilon  = 1e-7
	dropoutRate  = 0.2
	valSplit     = 0.1
)

// param is one trainable tensor with its gradient and Adam moments.
type param struct {
	w, g, m, v []float64
}

func newParam(size int) *param {
	return &param{
		w: make([]float64, size),
		g: make([]float64, size),
		m: make([]float64, size),
		v: make([]float64, size),
	}
}

func (p *param) zeroGrad() {
	for i := range p.g {
		p.g[i] = 0
	}
}

// glorotInit fills w with uniform values in [-limit, limit] where limit is
// derived from the tensor's fan-in and fan-out.
func glorotInit(rng *rand.Rand, w []float64, fanIn, fanOut int) {
	limit := math.Sqrt(6 / float64(fanIn+fanOut))
	for i := range w {
		w[i] = (rng.Float64()*2 - 1) * limit
	}
}

func sigmoid(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

// matVec adds W*x into out, W stored row-major as rows x cols.
func matVec(w []float64, rows, cols int, x, out []float64) {
	for r := 0; r < rows; r++ {
		out[r] += floats.Dot(w[r*cols:(r+1)*cols], x)
	}
}

// matTVec adds Wᵀ*dy into out.
func matTVec(w []float64, rows, cols int, dy, out []float64) {
	for r := 0; r < rows; r++ {
		floats.AddScaled(out, dy[r], w[r*cols:(r+1)*cols])
	}
}

// addOuter adds the outer product dy*xᵀ into the gradient buffer g.
func addOuter(g []float64, cols int, dy, x []float64) {
	for r := range dy {
		floats.AddScaled(g[r*cols:(r+1)*cols], dy[r], x)
	}
}

// recurrentCell is one stacked recurrent layer unrolled over a window.
// forward returns the hidden state at every timestep; backward consumes the
// gradient of each hidden state and returns the gradient of each input,
// accumulating parameter gradients along the way.
type recurrentCell interface {
	forward(xs [][]float64) ([][]float64, *cellTrace)
	backward(trace *cellTrace, dhs [][]float64) [][]float64
	params() []*param
}

// cellTrace caches per-timestep activations for backpropagation through time.
type cellTrace struct {
	xs     [][]float64
	hPrev  [][]float64
	cPrev  [][]float64
	gates  [][]float64
	cand   [][]float64
	states [][]float64
	hs     [][]float64
}

type lstmCell struct {
	in, hidden int
	wx, wh, b  *param
}

func newLSTMCell(rng *rand.Rand, in, hidden int) *lstmCell {
	c := &lstmCell{
		in:     in,
		hidden: hidden,
		wx:     newParam(4 * hidden * in),
		wh:     newParam(4 * hidden * hidden),
		b:      newParam(4 * hidden),
	}
	glorotInit(rng, c.wx.w, in, 4*hidden)
	glorotInit(rng, c.wh.w, hidden, 4*hidden)
	// forget gate bias starts at 1 so early gradients can flow through
	for i := hidden; i < 2*hidden; i++ {
		c.b.w[i] = 1
	}
	return c
}

func (c *lstmCell) params() []*param { return []*param{c.wx, c.wh, c.b} }

// Gate layout within the 4h preactivation vector: input, forget, candidate,
// output.
func (c *lstmCell) forward(xs [][]float64) ([][]float64, *cellTrace) {
	h := c.hidden
	trace := &cellTrace{xs: xs}
	hState := make([]float64, h)
	cState := make([]float64, h)

	for _, x := range xs {
		hPrev := append([]float64(nil), hState...)
		cPrev := append([]float64(nil), cState...)

		a := append([]float64(nil), c.b.w...)
		matVec(c.wx.w, 4*h, c.in, x, a)
		matVec(c.wh.w, 4*h, h, hPrev, a)

		gates := make([]float64, 4*h)
		for i := 0; i < h; i++ {
			gates[i] = sigmoid(a[i])           // input
			gates[h+i] = sigmoid(a[h+i])       // forget
			gates[2*h+i] = math.Tanh(a[2*h+i]) // candidate
			gates[3*h+i] = sigmoid(a[3*h+i])   // output
		}

		cState = make([]float64, h)
		hState = make([]float64, h)
		for i := 0; i < h; i++ {
			cState[i] = gates[h+i]*cPrev[i] + gates[i]*gates[2*h+i]
			hState[i] = gates[3*h+i] * math.Tanh(cState[i])
		}

		trace.hPrev = append(trace.hPrev, hPrev)
		trace.cPrev = append(trace.cPrev, cPrev)
		trace.gates = append(trace.gates, gates)
		trace.states = append(trace.states, append([]float64(nil), cState...))
		trace.hs = append(trace.hs, append([]float64(nil), hState...))
	}
	return trace.hs, trace
}

func (c *lstmCell) backward(trace *cellTrace, dhs [][]float64) [][]float64 {
	h := c.hidden
	dxs := make([][]float64, len(trace.xs))
	dh := make([]float64, h)
	dc := make([]float64, h)

	for t := len(trace.xs) - 1; t >= 0; t-- {
		floats.Add(dh, dhs[t])
		gates := trace.gates[t]
		da := make([]float64, 4*h)
		for i := 0; i < h; i++ {
			in, fg, cd, out := gates[i], gates[h+i], gates[2*h+i], gates[3*h+i]
			tc := math.Tanh(trace.states[t][i])
			do := dh[i] * tc
			dci := dc[i] + dh[i]*out*(1-tc*tc)
			da[i] = dci * cd * in * (1 - in)
			da[h+i] = dci * trace.cPrev[t][i] * fg * (1 - fg)
			da[2*h+i] = dci * in * (1 - cd*cd)
			da[3*h+i] = do * out * (1 - out)
			dc[i] = dci * fg
		}

		addOuter(c.wx.g, c.in, da, trace.xs[t])
		addOuter(c.wh.g, h, da, trace.hPrev[t])
		floats.Add(c.b.g, da)

		dx := make([]float64, c.in)
		matTVec(c.wx.w, 4*h, c.in, da, dx)
		dxs[t] = dx

		dh = make([]float64, h)
		matTVec(c.wh.w, 4*h, h, da, dh)
	}
	return dxs
}

type gruCell struct {
	in, hidden   int
	wxg, whg, bg *param // update and reset gates stacked as 2h
	wxc, whc, bc *param // candidate state
}

func newGRUCell(rng *rand.Rand, in, hidden int) *gruCell {
	c := &gruCell{
		in:     in,
		hidden: hidden,
		wxg:    newParam(2 * hidden * in),
		whg:    newParam(2 * hidden * hidden),
		bg:     newParam(2 * hidden),
		wxc:    newParam(hidden * in),
		whc:    newParam(hidden * hidden),
		bc:     newParam(hidden),
	}
	glorotInit(rng, c.wxg.w, in, 2*hidden)
	glorotInit(rng, c.whg.w, hidden, 2*hidden)
	glorotInit(rng, c.wxc.w, in, hidden)
	glorotInit(rng, c.whc.w, hidden, hidden)
	return c
}

func (c *gruCell) params() []*param {
	return []*param{c.wxg, c.whg, c.bg, c.wxc, c.whc, c.bc}
}

// Gate layout within the 2h preactivation vector: update, reset. The new
// state blends the previous state with the candidate under the update gate.
func (c *gruCell) forward(xs [][]float64) ([][]float64, *cellTrace) {
	h := c.hidden
	trace := &cellTrace{xs: xs}
	hState := make([]float64, h)

	for _, x := range xs {
		hPrev := append([]float64(nil), hState...)

		ag := append([]float64(nil), c.bg.w...)
		matVec(c.wxg.w, 2*h, c.in, x, ag)
		matVec(c.whg.w, 2*h, h, hPrev, ag)

		gates := make([]float64, 2*h)
		rh := make([]float64, h)
		for i := 0; i < h; i++ {
			gates[i] = sigmoid(ag[i])     // update
			gates[h+i] = sigmoid(ag[h+i]) // reset
			rh[i] = gates[h+i] * hPrev[i]
		}

		ac := append([]float64(nil), c.bc.w...)
		matVec(c.wxc.w, h, c.in, x, ac)
		matVec(c.whc.w, h, h, rh, ac)

		cand := make([]float64, h)
		hState = make([]float64, h)
		for i := 0; i < h; i++ {
			cand[i] = math.Tanh(ac[i])
			hState[i] = (1-gates[i])*hPrev[i] + gates[i]*cand[i]
		}

		trace.hPrev = append(trace.hPrev, hPrev)
		trace.cPrev = append(trace.cPrev, rh)
		trace.gates = append(trace.gates, gates)
		trace.cand = append(trace.cand, cand)
		trace.hs = append(trace.hs, append([]float64(nil), hState...))
	}
	return trace.hs, trace
}

func (c *gruCell) backward(trace *cellTrace, dhs [][]float64) [][]float64 {
	h := c.hidden
	dxs := make([][]float64, len(trace.xs))
	dh := make([]float64, h)

	for t := len(trace.xs) - 1; t >= 0; t-- {
		floats.Add(dh, dhs[t])
		gates, cand, hPrev, rh := trace.gates[t], trace.cand[t], trace.hPrev[t], trace.cPrev[t]

		dac := make([]float64, h)
		dhPrev := make([]float64, h)
		dz := make([]float64, h)
		for i := 0; i < h; i++ {
			dac[i] = dh[i] * gates[i] * (1 - cand[i]*cand[i])
			dz[i] = dh[i] * (cand[i] - hPrev[i])
			dhPrev[i] = dh[i] * (1 - gates[i])
		}

		addOuter(c.wxc.g, c.in, dac, trace.xs[t])
		addOuter(c.whc.g, h, dac, rh)
		floats.Add(c.bc.g, dac)

		drh := make([]float64, h)
		matTVec(c.whc.w, h, h, dac, drh)

		da := make([]float64, 2*h)
		for i := 0; i < h; i++ {
			dr := drh[i] * hPrev[i]
			dhPrev[i] += drh[i] * gates[h+i]
			da[i] = dz[i] * gates[i] * (1 - gates[i])
			da[h+i] = dr * gates[h+i] * (1 - gates[h+i])
		}

		addOuter(c.wxg.g, c.in, da, trace.xs[t])
		addOuter(c.whg.g, h, da, hPrev)
		floats.Add(c.bg.g, da)

		dx := make([]float64, c.in)
		matTVec(c.wxc.w, h, c.in, dac, dx)
		matTVec(c.wxg.w, 2*h, c.in, da, dx)
		dxs[t] = dx

		matTVec(c.whg.w, 2*h, h, da, dhPrev)
		dh = dhPrev
	}
	return dxs
}

type denseLayer struct {
	in, out int
	w, b    *param
}

func newDenseLayer(rng *rand.Rand, in, out int) *denseLayer {
	d := &denseLayer{in: in, out: out, w: newParam(out * in), b: newParam(out)}
	glorotInit(rng, d.w.w, in, out)
	return d
}

func (d *denseLayer) params() []*param { return []*param{d.w, d.b} }

func (d *denseLayer) forward(x []float64) []float64 {
	y := append([]float64(nil), d.b.w...)
	matVec(d.w.w, d.out, d.in, x, y)
	return y
}

func (d *denseLayer) backward(x, dy []float64) []float64 {
	addOuter(d.w.g, d.in, dy, x)
	floats.Add(d.b.g, dy)
	dx := make([]float64, d.in)
	matTVec(d.w.w, d.out, d.in, dy, dx)
	return dx
}

// recurrentRegressor is two stacked recurrent layers with dropout between
// them, followed by two dense layers. Trained with Adam on mean squared
// error over shuffled minibatches, holding out the tail of the samples for
// validation.
type recurrentRegressor struct {
	kind string
	opts Options
	rng  *rand.Rand

	layer1, layer2 recurrentCell
	dense1, dense2 *denseLayer
	allParams      []*param

	step    int
	trained bool

	// final-epoch losses, exposed for logging
	TrainLoss float64
	ValLoss   float64
	HasVal    bool
}

func newRecurrentRegressor(modelType string, opts Options) *recurrentRegressor {
	rng := rand.New(rand.NewSource(int64(opts.Lookback)*1_000_003 + int64(opts.HiddenSize)))
	n := &recurrentRegressor{kind: modelType, opts: opts, rng: rng}

	h := opts.HiddenSize
	switch modelType {
	case ModelGRU:
		n.layer1 = newGRUCell(rng, 1, h)
		n.layer2 = newGRUCell(rng, h, h)
	default:
		n.kind = ModelLSTM
		n.layer1 = newLSTMCell(rng, 1, h)
		n.layer2 = newLSTMCell(rng, h, h)
	}
	n.dense1 = newDenseLayer(rng, h, h/2)
	n.dense2 = newDenseLayer(rng, h/2, 1)

	n.allParams = append(n.allParams, n.layer1.params()...)
	n.allParams = append(n.allParams, n.layer2.params()...)
	n.allParams = append(n.allParams, n.dense1.params()...)
	n.allParams = append(n.allParams, n.dense2.params()...)
	return n
}

func (n *recurrentRegressor) dropoutMask(size int) []float64 {
	mask := make([]float64, size)
	keep := 1 - dropoutRate
	for i := range mask {
		if n.rng.Float64() < keep {
			mask[i] = 1 / keep
		}
	}
	return mask
}

// forwardTrain runs one sample through the network with dropout and returns
// the prediction plus everything backward needs.
type sampleTrace struct {
	trace1, trace2 *cellTrace
	masks1         [][]float64
	mask2          []float64
	dropped1       [][]float64
	hLast          []float64
	z1             []float64
}

func (n *recurrentRegressor) forwardTrain(window []float64) (float64, *sampleTrace) {
	xs := make([][]float64, len(window))
	for i, v := range window {
		xs[i] = []float64{v}
	}

	h1s, trace1 := n.layer1.forward(xs)
	st := &sampleTrace{trace1: trace1}
	st.dropped1 = make([][]float64, len(h1s))
	st.masks1 = make([][]float64, len(h1s))
	for t, hv := range h1s {
		mask := n.dropoutMask(len(hv))
		out := make([]float64, len(hv))
		floats.MulTo(out, hv, mask)
		st.masks1[t] = mask
		st.dropped1[t] = out
	}

	h2s, trace2 := n.layer2.forward(st.dropped1)
	st.trace2 = trace2

	last := h2s[len(h2s)-1]
	st.mask2 = n.dropoutMask(len(last))
	st.hLast = make([]float64, len(last))
	floats.MulTo(st.hLast, last, st.mask2)

	st.z1 = n.dense1.forward(st.hLast)
	y := n.dense2.forward(st.z1)
	return y[0], st
}

func (n *recurrentRegressor) backward(st *sampleTrace, dy float64) {
	dz1 := n.dense2.backward(st.z1, []float64{dy})
	dhLast := n.dense1.backward(st.hLast, dz1)
	floats.Mul(dhLast, st.mask2)

	steps := len(st.dropped1)
	dhs2 := make([][]float64, steps)
	for t := range dhs2 {
		dhs2[t] = make([]float64, n.opts.HiddenSize)
	}
	copy(dhs2[steps-1], dhLast)

	dxs2 := n.layer2.backward(st.trace2, dhs2)
	for t := range dxs2 {
		floats.Mul(dxs2[t], st.masks1[t])
	}

	n.layer1.backward(st.trace1, dxs2)
}

func (n *recurrentRegressor) forwardEval(window []float64) float64 {
	xs := make([][]float64, len(window))
	for i, v := range window {
		xs[i] = []float64{v}
	}
	h1s, _ := n.layer1.forward(xs)
	h2s, _ := n.layer2.forward(h1s)
	z1 := n.dense1.forward(h2s[len(h2s)-1])
	return n.dense2.forward(z1)[0]
}

func (n *recurrentRegressor) adamStep() {
	n.step++
	b1c := 1 - math.Pow(adamBeta1, float64(n.step))
	b2c := 1 - math.Pow(adamBeta2, float64(n.step))
	for _, p := range n.allParams {
		for i, g := range p.g {
			p.m[i] = adamBeta1*p.m[i] + (1-adamBeta1)*g
			p.v[i] = adamBeta2*p.v[i] + (1-adamBeta2)*g*g
			p.w[i] -= learningRate * (p.m[i] / b1c) / (math.Sqrt(p.v[i]/b2c) + adamEpsilon)
		}
	}
}

func (n *recurrentRegressor) Fit(windows [][]float64, targets []float64) error {
	if len(windows) == 0 || len(windows) != len(targets) {
		return fmt.Errorf("%w: %d windows, %d targets", ErrInsufficientData, len(windows), len(targets))
	}
	for _, w := range windows {
		if len(w) != n.opts.Lookback {
			return fmt.Errorf("window length %d, expected %d", len(w), n.opts.Lookback)
		}
	}

	valCount := int(float64(len(windows)) * valSplit)
	trainCount := len(windows) - valCount
	if trainCount == 0 {
		trainCount = len(windows)
		valCount = 0
	}
	n.HasVal = valCount > 0

	order := make([]int, trainCount)
	for i := range order {
		order[i] = i
	}

	for epoch := 0; epoch < n.opts.Epochs; epoch++ {
		n.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

		epochLoss := 0.0
		for start := 0; start < len(order); start += n.opts.BatchSize {
			end := start + n.opts.BatchSize
			if end > len(order) {
				end = len(order)
			}
			batch := order[start:end]

			for _, p := range n.allParams {
				p.zeroGrad()
			}
			for _, idx := range batch {
				pred, st := n.forwardTrain(windows[idx])
				diff := pred - targets[idx]
				epochLoss += diff * diff
				n.backward(st, 2*diff/float64(len(batch)))
			}
			n.adamStep()
		}
		n.TrainLoss = epochLoss / float64(trainCount)
	}

	if valCount > 0 {
		valLoss := 0.0
		for i := trainCount; i < len(windows); i++ {
			diff := n.forwardEval(windows[i]) - targets[i]
			valLoss += diff * diff
		}
		n.ValLoss = valLoss / float64(valCount)
	}

	n.trained = true
	return nil
}

func (n *recurrentRegressor) Predict(window []float64) (float64, error) {
	if !n.trained {
		return 0, ErrUntrainedModel
	}
	if len(window) != n.opts.Lookback {
		return 0, fmt.Errorf("window length %d, expected %d", len(window), n.opts.Lookback)
	}
	return n.forwardEval(window), nil
}
