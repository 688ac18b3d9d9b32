package ecalib

import (
	"context"

	"github.com/google/uuid"

	"ecalib/internal/node"
	"ecalib/internal/services"
)

// NodeName identifies the calibration node.
const NodeName = "ECalib"

// Node exposes the calibration as a panel node.
type Node struct {
	calibrator *Calibrator
	defaults   Options
}

// NewNode returns a node whose widgets start at defaults.
func NewNode(calibrator *Calibrator, defaults Options) *Node {
	return &Node{calibrator: calibrator, defaults: defaults}
}

// Describe declares the widgets and ports.
func (n *Node) Describe() node.Spec {
	d := n.defaults
	return node.Spec{
		Name:        NodeName,
		Description: "ESPIRiT calibration of coil sensitivities using BART ecalib",
		Widgets: []node.Widget{
			node.FloatWidget(WidgetThreshold, d.Threshold, 0, 5),
			node.FloatWidget(WidgetCrop, d.Crop, 0, 3),
			node.IntWidget(WidgetKernelSize, d.KernelSize, 1),
			node.IntWidget(WidgetCalibrationSize, d.CalibrationSize, 1),
			node.IntWidget(WidgetMaps, d.Maps, 1),
			node.ToggleWidget(WidgetIntensityCorrection, d.IntensityCorrection),
			node.ToggleWidget(WidgetFirstPartOnly, d.FirstPartOnly),
		},
		InPorts: []node.Port{
			{Name: PortKSpace, Type: node.TypeArray, Obligation: node.Required},
		},
		OutPorts: []node.Port{
			{Name: PortSensitivities, Type: node.TypeArray},
			{Name: PortEVMaps, Type: node.TypeArray},
			{Name: PortImgCov, Type: node.TypeArray},
		},
	}
}

// Compute reads the panel, runs one calibration and publishes its outputs.
// Nothing is published unless the whole invocation succeeds.
func (n *Node) Compute(ctx context.Context, host node.Host) error {
	opts, err := readOptions(host)
	if err != nil {
		return err
	}
	kspace, ok := host.Data(PortKSpace)
	if !ok {
		return services.Wrap(services.ErrValidation, "ecalib", "read input", "kspace is not connected", nil)
	}

	if _, ok := services.InvocationIDFromContext(ctx); !ok {
		ctx = services.WithInvocationID(ctx, uuid.NewString())
	}
	ctx = services.WithNode(ctx, NodeName)

	result, err := n.calibrator.Calibrate(ctx, opts, kspace)
	if err != nil {
		return err
	}
	for _, port := range opts.OutputPorts() {
		if err := host.SetData(port, result.Outputs[port]); err != nil {
			return err
		}
	}
	return nil
}

func readOptions(host node.Host) (Options, error) {
	var (
		opts Options
		err  error
	)
	if opts.Threshold, err = node.FloatValue(host, WidgetThreshold); err != nil {
		return Options{}, err
	}
	if opts.Crop, err = node.FloatValue(host, WidgetCrop); err != nil {
		return Options{}, err
	}
	if opts.KernelSize, err = node.IntValue(host, WidgetKernelSize); err != nil {
		return Options{}, err
	}
	if opts.CalibrationSize, err = node.IntValue(host, WidgetCalibrationSize); err != nil {
		return Options{}, err
	}
	if opts.Maps, err = node.IntValue(host, WidgetMaps); err != nil {
		return Options{}, err
	}
	if opts.IntensityCorrection, err = node.BoolValue(host, WidgetIntensityCorrection); err != nil {
		return Options{}, err
	}
	if opts.FirstPartOnly, err = node.BoolValue(host, WidgetFirstPartOnly); err != nil {
		return Options{}, err
	}
	return opts, nil
}
