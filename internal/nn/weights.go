package nn

import (
	"bufio"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/born-ml/bpnet/internal/linalg"
)

// Weight files are plain text with no header: one line of biases per layer in
// creation order, then the weight matrix of every layer's incoming
// projections (layer creation order, then connection order), one matrix row
// per line. The reader trusts the network's existing shapes.

// WriteWeights writes every bias and weight to w in weight file order.
// Values are written with full precision so ReadWeights restores them exactly.
func (net *Network) WriteWeights(w io.Writer) error {
	bw := bufio.NewWriter(w)

	for _, l := range net.layers {
		if _, err := l.bias.WriteTo(bw); err != nil {
			return errors.Wrapf(err, "write bias of layer %d", l.id)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return errors.Wrap(err, "write bias")
		}
	}

	err := net.eachIncoming(func(l *Layer, p *Projection) error {
		_, err := p.weights.WriteTo(bw)
		return errors.Wrapf(err, "write weights of projection %d into layer %d", p.id, l.id)
	})
	if err != nil {
		return err
	}

	return errors.Wrap(bw.Flush(), "flush weights")
}

// ReadWeights replaces every bias and weight with values read from r in
// weight file order. On any error the network is left unchanged.
func (net *Network) ReadWeights(r io.Reader) error {
	tr := linalg.NewTokenReader(r)

	biases := make([]linalg.Vector, len(net.layers))
	for i, l := range net.layers {
		b := linalg.NewVector(l.n)
		if err := b.Read(tr); err != nil {
			return errors.Wrapf(err, "read bias of layer %d", l.id)
		}
		biases[i] = b
	}

	weights := make([]linalg.Matrix, len(net.projections))
	err := net.eachIncoming(func(l *Layer, p *Projection) error {
		m := linalg.NewMatrix(p.weights.Rows(), p.weights.Cols())
		if err := m.Read(tr); err != nil {
			return errors.Wrapf(err, "read weights of projection %d into layer %d", p.id, l.id)
		}
		weights[p.id] = m
		return nil
	})
	if err != nil {
		return err
	}

	for i, l := range net.layers {
		l.bias.CopyFrom(biases[i])
	}
	for _, p := range net.projections {
		p.weights = weights[p.id]
	}
	return nil
}

// eachIncoming visits projections in weight file order.
func (net *Network) eachIncoming(fn func(l *Layer, p *Projection) error) error {
	for _, l := range net.layers {
		for _, pid := range l.inputs {
			if err := fn(l, net.projections[pid]); err != nil {
				return err
			}
		}
	}
	return nil
}

// SaveWeights writes the weights to a new file at path. It refuses to
// overwrite an existing file.
func (net *Network) SaveWeights(path string) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return errors.Wrap(err, "create weight file")
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = errors.Wrap(cerr, "close weight file")
		}
	}()

	return net.WriteWeights(f)
}

// LoadWeights reads the weights from the file at path.
func (net *Network) LoadWeights(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open weight file")
	}
	defer f.Close()

	return net.ReadWeights(f)
}
