// Package plugin implements the protoc plugin protocol on top of the
// generation run
package plugin

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/pluginpb"

	"github.com/tracdap/tracgen/internal/codegen"
	"github.com/tracdap/tracgen/internal/config"
)

// SupportedFeatures is advertised in every response
var SupportedFeatures = uint64(pluginpb.CodeGeneratorResponse_FEATURE_PROTO3_OPTIONAL)

// Run reads a CodeGeneratorRequest from r and writes the response to w.
// Generation errors are reported inside the response; only I/O and decoding
// failures are returned.
func Run(r io.Reader, w io.Writer, registry *codegen.Registry, logger zerolog.Logger) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read plugin request: %w", err)
	}

	req := &pluginpb.CodeGeneratorRequest{}
	if err := proto.Unmarshal(data, req); err != nil {
		return fmt.Errorf("failed to parse plugin request: %w", err)
	}

	resp := Generate(req, registry, logger)

	out, err := proto.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to encode plugin response: %w", err)
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("failed to write plugin response: %w", err)
	}

	return nil
}

// Generate builds the response for one plugin request
func Generate(req *pluginpb.CodeGeneratorRequest, registry *codegen.Registry, logger zerolog.Logger) *pluginpb.CodeGeneratorResponse {
	resp := &pluginpb.CodeGeneratorResponse{
		SupportedFeatures: proto.Uint64(SupportedFeatures),
	}

	logger.Debug().
		Str("parameter", req.GetParameter()).
		Strs("files", req.GetFileToGenerate()).
		Msg("received plugin request")

	opts, err := config.ParseParameter(req.GetParameter(), logger)
	if err != nil {
		resp.Error = proto.String(err.Error())
		return resp
	}

	files, err := codegen.Run(codegen.Request{
		Files:           req.GetProtoFile(),
		FilesToGenerate: req.GetFileToGenerate(),
		Options:         opts,
	}, registry, logger)
	if err != nil {
		logger.Error().Err(err).Msg("generation failed")
		resp.Error = proto.String(err.Error())
		return resp
	}

	for _, f := range files {
		resp.File = append(resp.File, &pluginpb.CodeGeneratorResponse_File{
			Name:    proto.String(f.Path),
			Content: proto.String(f.Content),
		})
	}

	return resp
}
