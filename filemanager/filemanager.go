// Package filemanager persists files produced by agents. Each write lands on
// the local filesystem first and is then mirrored to remote storage when the
// resource catalog marks the file as REMOTE.
//
// The write and read operations never return a Go error. They return either
// a success string (a message or a path) or a message starting with
// "Error <operation>: "; use IsErrorMessage to tell them apart.
package filemanager

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/reillywatson/agentfiles/agent"
	"github.com/reillywatson/agentfiles/metrics"
	"github.com/reillywatson/agentfiles/resource"
	"github.com/reillywatson/agentfiles/storage/local"
	"github.com/reillywatson/agentfiles/storage/remote"
)

const (
	opWriteBinaryFile = "write_binary_file"
	opWriteFile       = "write_file"
	opWriteCSVFile    = "write_csv_file"
	opWriteTxtFile    = "write_txt_file"
	opReadFile        = "read_file"
)

// Scope identifies whose files a FileManager works on. A zero AgentID selects
// the shared resource area; a zero ExecutionID scopes to the agent alone.
type Scope struct {
	AgentID     int64
	ExecutionID int64
}

// Deps are the collaborators a FileManager delegates to.
type Deps struct {
	Registry agent.Registry
	Resolver resource.Resolver
	// Catalog may be nil, in which case nothing is mirrored.
	Catalog resource.Catalog
	Local   local.Storage
	// Remote may be nil when no object store is configured.
	Remote            remote.Storage
	Logger            *zap.Logger
	MirrorConcurrency int
}

type FileManager struct {
	registry          agent.Registry
	resolver          resource.Resolver
	catalog           resource.Catalog
	local             local.Storage
	remote            remote.Storage
	logger            *zap.Logger
	mirrorConcurrency int
	scope             Scope
}

func New(deps Deps, scope Scope) *FileManager {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if scope.AgentID != 0 {
		logger = logger.With(zap.Int64("agent_id", scope.AgentID), zap.Int64("execution_id", scope.ExecutionID))
	}
	concurrency := deps.MirrorConcurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &FileManager{
		registry:          deps.Registry,
		resolver:          deps.Resolver,
		catalog:           deps.Catalog,
		local:             deps.Local,
		remote:            deps.Remote,
		logger:            logger,
		mirrorConcurrency: concurrency,
		scope:             scope,
	}
}

// Scope returns the scope the FileManager was created with.
func (fm *FileManager) Scope() Scope {
	return fm.scope
}

// WriteBinaryFile writes data to name and mirrors it.
func (fm *FileManager) WriteBinaryFile(ctx context.Context, name string, data []byte) string {
	if err := fm.writeBinary(ctx, name, data); err != nil {
		return fm.fail(opWriteBinaryFile, name, err)
	}
	msg := fmt.Sprintf("Binary %s saved successfully", name)
	fm.logger.Info(msg)
	return msg
}

func (fm *FileManager) writeBinary(ctx context.Context, name string, data []byte) error {
	path, err := fm.resolveFile(ctx, name)
	if err != nil {
		return err
	}
	if err := fm.local.WriteBytes(ctx, path, data); err != nil {
		return err
	}
	metrics.FilesWritten.WithLabelValues("binary").Inc()
	return fm.mirror(ctx, name, path)
}

// WriteFile writes content with the writer matching name's extension. It
// returns the resolved path when returnPath is set, a success message
// otherwise. Text types take a string or []byte. CSV takes either [][]string
// rows or [][][]string groups of rows, each group written whole in order.
func (fm *FileManager) WriteFile(ctx context.Context, name string, content any, returnPath bool) string {
	path, err := fm.resolveFile(ctx, name)
	if err != nil {
		return fm.fail(opWriteFile, name, err)
	}
	if err := fm.SaveFileByType(ctx, name, path, content); err != nil {
		return fm.fail(opWriteFile, name, err)
	}
	if returnPath {
		return path
	}
	return fmt.Sprintf("%s - File written successfully", name)
}

// WriteCSVFile writes groups to path as comma separated rows ending in "\n".
// Each element of groups is written whole, in order.
func (fm *FileManager) WriteCSVFile(ctx context.Context, name, path string, groups [][][]string) string {
	if err := fm.writeCSV(ctx, name, path, groups); err != nil {
		return fm.fail(opWriteCSVFile, name, err)
	}
	return fmt.Sprintf("%s - File written successfully", name)
}

func (fm *FileManager) writeCSV(ctx context.Context, name, path string, groups [][][]string) error {
	if err := fm.local.WriteCSV(ctx, path, groups); err != nil {
		return err
	}
	metrics.FilesWritten.WithLabelValues(typeLabel(CSV)).Inc()
	if err := fm.mirror(ctx, name, path); err != nil {
		return err
	}
	fm.logger.Info(fmt.Sprintf("%s - File written successfully", name))
	return nil
}

// WriteTxtFile replaces the content of path with text and returns path.
func (fm *FileManager) WriteTxtFile(ctx context.Context, name, path, text string) string {
	if err := fm.writeText(ctx, name, path, text); err != nil {
		return fm.fail(opWriteTxtFile, name, err)
	}
	return path
}

func (fm *FileManager) writeText(ctx context.Context, name, path, text string) error {
	if err := fm.local.WriteText(ctx, path, text); err != nil {
		return err
	}
	metrics.FilesWritten.WithLabelValues(typeLabel(FileTypeOf(name))).Inc()
	if err := fm.mirror(ctx, name, path); err != nil {
		return err
	}
	fm.logger.Info(fmt.Sprintf("%s - File written successfully", name))
	return nil
}

// WritePDFFile writes nothing and returns ErrNotImplemented.
func (fm *FileManager) WritePDFFile(_ context.Context, name, _ string, _ any) error {
	return fmt.Errorf("%s: pdf %w", name, ErrNotImplemented)
}

// WriteDOCXFile writes nothing and returns ErrNotImplemented.
func (fm *FileManager) WriteDOCXFile(_ context.Context, name, _ string, _ any) error {
	return fmt.Errorf("%s: docx %w", name, ErrNotImplemented)
}

// ReadFile returns the content of name.
func (fm *FileManager) ReadFile(ctx context.Context, name string) string {
	content, err := fm.ReadFileContent(ctx, name)
	if err != nil {
		return fm.fail(opReadFile, name, err)
	}
	return content
}

// ReadFileContent is ReadFile with the failure as an error, for callers that
// cannot tell file content from an error message.
func (fm *FileManager) ReadFileContent(ctx context.Context, name string) (string, error) {
	path, err := fm.resolveFile(ctx, name)
	if err != nil {
		return "", err
	}
	content, err := fm.local.Read(ctx, path)
	if err != nil {
		return "", err
	}
	fm.logger.Info(fmt.Sprintf("%s - File read successfully", name))
	return content, nil
}

// GetFiles lists the entries of the scope's resource directory. Failures are
// logged and produce an empty list.
func (fm *FileManager) GetFiles(ctx context.Context) []string {
	dir, err := fm.resolve(ctx, "")
	if err != nil {
		fm.logger.Error("Error while resolving resource directory", zap.Error(err))
		return []string{}
	}
	files, err := fm.local.List(ctx, dir)
	if err != nil {
		fm.logger.Error("Error while accessing files", zap.String("dir", dir), zap.Error(err))
		return []string{}
	}
	return files
}

// AgentResourcePath resolves name inside the agent/execution directory.
func (fm *FileManager) AgentResourcePath(ctx context.Context, name string) (string, error) {
	a, e, err := fm.owners(ctx)
	if err != nil {
		return "", err
	}
	if a == nil {
		return "", ErrNoAgent
	}
	return fm.resolver.Scoped(name, *a, e)
}

// resolveFile resolves a name that must denote a file. The empty name is
// reserved for the directory itself.
func (fm *FileManager) resolveFile(ctx context.Context, name string) (string, error) {
	if name == "" || filepath.Clean(name) == "." {
		return "", fmt.Errorf("%q: %w", name, resource.ErrInvalidName)
	}
	return fm.resolve(ctx, name)
}

func (fm *FileManager) resolve(ctx context.Context, name string) (string, error) {
	if fm.scope.AgentID == 0 {
		return fm.resolver.Generic(name)
	}
	return fm.AgentResourcePath(ctx, name)
}

// owners looks up the agent and execution in scope; both are nil for the
// shared area.
func (fm *FileManager) owners(ctx context.Context) (*agent.Agent, *agent.Execution, error) {
	if fm.scope.AgentID == 0 {
		return nil, nil, nil
	}
	a, err := fm.registry.GetAgent(ctx, fm.scope.AgentID)
	if err != nil {
		return nil, nil, err
	}
	if fm.scope.ExecutionID == 0 {
		return &a, nil, nil
	}
	e, err := fm.registry.GetExecution(ctx, fm.scope.ExecutionID)
	if err != nil {
		return nil, nil, err
	}
	return &a, &e, nil
}

func (fm *FileManager) fail(op, name string, err error) string {
	metrics.OperationErrors.WithLabelValues(op).Inc()
	fm.logger.Warn("file operation failed", zap.String("op", op), zap.String("file", name), zap.Error(err))
	return errorMessage(op, err)
}
