package lsp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"
	"k8s.io/klog/v2"

	"github.com/iwe-org/iwe-sub001/internal/graph"
	"github.com/iwe-org/iwe-sub001/internal/key"
	"github.com/iwe-org/iwe-sub001/internal/llmclient"
	"github.com/iwe-org/iwe-sub001/internal/project"
	"github.com/iwe-org/iwe-sub001/internal/store"
	"github.com/iwe-org/iwe-sub001/internal/wsconfig"
)

// Stable command identifiers (spec §6 external interfaces).
const (
	CommandGenerate  = "iwe.generate"
	CommandTransform = "iwe.transform"
	CommandAttach    = "iwe.attach"
	CommandLinkNew   = "iwe.linkNew"
)

// Server is the glsp wire-protocol adapter (C12): every field below does
// nothing but translate a protocol.*Params into a call on the pure
// providers in actions.go/commands.go/attachlink.go and a FileChange list
// back into a protocol.WorkspaceEdit. None of the refactoring logic lives
// here.
type Server struct {
	root    string
	db      *store.Database
	cfg     wsconfig.Configuration
	llm     llmclient.Client
	handler protocol.Handler
}

// NewServer wires every handled method spec §6 lists onto this adapter.
func NewServer(root string, db *store.Database, cfg wsconfig.Configuration, llm llmclient.Client) *Server {
	s := &Server{root: root, db: db, cfg: cfg, llm: llm}
	s.handler = protocol.Handler{
		Initialize:  s.initialize,
		Initialized: s.initialized,
		Shutdown:    s.shutdown,
		SetTrace:    s.setTrace,

		TextDocumentDidOpen:   s.didOpen,
		TextDocumentDidChange: s.didChange,
		TextDocumentDidSave:   s.didSave,
		TextDocumentDidClose:  s.didClose,

		TextDocumentDefinition:     s.definition,
		TextDocumentReferences:     s.references,
		TextDocumentHover:          s.hover,
		TextDocumentCompletion:     s.completion,
		TextDocumentDocumentSymbol: s.documentSymbol,
		WorkspaceSymbol:            s.workspaceSymbol,
		TextDocumentFormatting:     s.formatting,
		TextDocumentCodeAction:     s.codeAction,
		CodeActionResolve:          s.codeActionResolve,
		TextDocumentRename:         s.rename,
		TextDocumentPrepareRename:  s.prepareRename,
		TextDocumentInlayHint:      s.inlayHint,
		WorkspaceExecuteCommand:    s.executeCommand,
	}
	return s
}

// Run starts the server over stdio, the transport spec §6 names.
func (s *Server) Run(name, version string, debug bool) error {
	srv := glspserver.NewServer(&s.handler, name, debug)
	return srv.RunStdio()
}

func (s *Server) markdownOpts() graph.Options {
	return graph.Options{RefsExtension: s.cfg.Markdown.RefsExtension, SequentialKeys: s.cfg.SequentialKeys}
}

func (s *Server) writerOpts() project.Options {
	return project.Options{RefsExtension: s.cfg.Markdown.RefsExtension}
}

// --- lifecycle -------------------------------------------------------

func (s *Server) initialize(glspCtx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := s.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = protocol.TextDocumentSyncKindFull
	version := "0.1.0"
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    "iwes",
			Version: &version,
		},
	}, nil
}

func (s *Server) initialized(glspCtx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (s *Server) shutdown(glspCtx *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (s *Server) setTrace(glspCtx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

// --- document sync ----------------------------------------------------

func (s *Server) didOpen(glspCtx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	k := uriToKey(s.root, params.TextDocument.URI)
	if _, ok := s.db.Content(k); ok {
		return nil
	}
	return s.db.InsertDocument(k, params.TextDocument.Text)
}

func (s *Server) didChange(glspCtx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	k := uriToKey(s.root, params.TextDocument.URI)
	// Synced with TextDocumentSyncKindFull: the last change event carries
	// the document's whole new text.
	if len(params.ContentChanges) == 0 {
		return nil
	}
	full, ok := params.ContentChanges[len(params.ContentChanges)-1].(protocol.TextDocumentContentChangeEventWhole)
	if !ok {
		return nil
	}
	return s.db.UpdateDocument(k, full.Text)
}

func (s *Server) didSave(glspCtx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text == nil {
		return nil
	}
	k := uriToKey(s.root, params.TextDocument.URI)
	return s.db.UpdateDocument(k, *params.Text)
}

func (s *Server) didClose(glspCtx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	return nil
}

// --- read-only providers ----------------------------------------------

func (s *Server) definition(glspCtx *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	k := uriToKey(s.root, params.TextDocument.URI)
	loc, ok := Definition(s.db, k, int(params.Position.Line), s.cfg.Markdown.RefsExtension)
	if !ok {
		return nil, nil
	}
	return s.locationToProtocol(loc), nil
}

func (s *Server) references(glspCtx *glsp.Context, params *protocol.ReferenceParams) (any, error) {
	k := uriToKey(s.root, params.TextDocument.URI)
	if !IsPrimaryHeadingAt(s.db, k, int(params.Position.Line)) {
		return nil, nil
	}
	sites := References(s.db, k)
	out := make([]protocol.Location, 0, len(sites))
	for _, loc := range sites {
		out = append(out, s.locationToProtocol(loc))
	}
	return out, nil
}

func (s *Server) hover(glspCtx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	k := uriToKey(s.root, params.TextDocument.URI)
	text, ok := Hover(s.db, k, int(params.Position.Line), s.cfg.Markdown.RefsExtension)
	if !ok {
		return nil, nil
	}
	return &protocol.Hover{Contents: protocol.MarkupContent{Kind: protocol.MarkupKindMarkdown, Value: text}}, nil
}

func (s *Server) completion(glspCtx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	items := Completion(s.db, s.cfg.WikiLinks, s.cfg.Markdown.RefsExtension)
	out := make([]protocol.CompletionItem, 0, len(items))
	for _, it := range items {
		insert := it.Insert
		out = append(out, protocol.CompletionItem{Label: it.Label, InsertText: &insert})
	}
	return out, nil
}

func (s *Server) documentSymbol(glspCtx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	k := uriToKey(s.root, params.TextDocument.URI)
	entries := DocumentSymbols(s.db, k)
	out := make([]protocol.SymbolInformation, 0, len(entries))
	for _, e := range entries {
		out = append(out, s.symbolToProtocol(e))
	}
	return out, nil
}

func (s *Server) workspaceSymbol(glspCtx *glsp.Context, params *protocol.WorkspaceSymbolParams) (any, error) {
	entries := WorkspaceSymbols(s.db, params.Query)
	out := make([]protocol.SymbolInformation, 0, len(entries))
	for _, e := range entries {
		out = append(out, s.symbolToProtocol(e))
	}
	return out, nil
}

func (s *Server) symbolToProtocol(e SymbolEntry) protocol.SymbolInformation {
	line := protocol.UInteger(e.Line)
	return protocol.SymbolInformation{
		Name: e.Name,
		Kind: protocol.SymbolKindString,
		Location: protocol.Location{
			URI:   keyToURI(s.root, e.Key),
			Range: protocol.Range{Start: protocol.Position{Line: line}, End: protocol.Position{Line: line}},
		},
	}
}

func (s *Server) locationToProtocol(l Location) protocol.Location {
	line := protocol.UInteger(l.Line)
	return protocol.Location{
		URI:   keyToURI(s.root, l.Key),
		Range: protocol.Range{Start: protocol.Position{Line: line}, End: protocol.Position{Line: line}},
	}
}

func (s *Server) formatting(glspCtx *glsp.Context, params *protocol.DocumentFormattingParams) (any, error) {
	k := uriToKey(s.root, params.TextDocument.URI)
	md, ok := Format(s.db, k)
	if !ok {
		return nil, nil
	}
	return []protocol.TextEdit{fullDocumentReplace(md)}, nil
}

func (s *Server) inlayHint(glspCtx *glsp.Context, params *protocol.InlayHintParams) (any, error) {
	k := uriToKey(s.root, params.TextDocument.URI)
	hints := InlayHints(s.db, k)
	out := make([]protocol.InlayHint, 0, len(hints))
	for _, h := range hints {
		label := h.Text
		out = append(out, protocol.InlayHint{
			Position: protocol.Position{Line: protocol.UInteger(h.Line)},
			Label:    label,
		})
	}
	return out, nil
}

// --- rename -------------------------------------------------------------

func (s *Server) prepareRename(glspCtx *glsp.Context, params *protocol.PrepareRenameParams) (any, error) {
	k := uriToKey(s.root, params.TextDocument.URI)
	placeholder, ok := PrepareRename(s.db, k, int(params.Position.Line))
	if !ok {
		return nil, nil
	}
	line := protocol.UInteger(params.Position.Line)
	return protocol.PrepareRenameResult{
		Range:       protocol.Range{Start: protocol.Position{Line: line}, End: protocol.Position{Line: line}},
		Placeholder: placeholder,
	}, nil
}

func (s *Server) rename(glspCtx *glsp.Context, params *protocol.RenameParams) (*protocol.WorkspaceEdit, error) {
	k := uriToKey(s.root, params.TextDocument.URI)
	if !IsPrimaryHeadingAt(s.db, k, int(params.Position.Line)) {
		return nil, fmt.Errorf("rename: cursor must be on the document's primary heading")
	}
	p, err := ExecuteRename(s.db, k, key.New(params.NewName))
	if err != nil {
		return nil, err
	}
	edit := s.patchToWorkspaceEdit(p)
	if err := s.db.ApplyPatch(p, s.markdownOpts()); err != nil {
		return nil, err
	}
	return &edit, nil
}

// --- code actions ---------------------------------------------------------

func (s *Server) codeAction(glspCtx *glsp.Context, params *protocol.CodeActionParams) (any, error) {
	k := uriToKey(s.root, params.TextDocument.URI)
	blocks, err := s.db.Graph().ProjectKey(k)
	if err != nil {
		return nil, nil
	}
	id, ok := nodeIDAtLine(blocks, int(params.Range.Start.Line))
	if !ok {
		return nil, nil
	}
	offers := AvailableCodeActions(s.db, k, id)
	out := make([]protocol.CodeAction, 0, len(offers))
	for _, offer := range offers {
		offer := offer
		kind := protocol.CodeActionKindRefactor
		out = append(out, protocol.CodeAction{
			Title: offer.Title,
			Kind:  &kind,
			Data:  map[string]any{"uri": params.TextDocument.URI, "line": params.Range.Start.Line, "actionId": offer.ID},
		})
	}
	return out, nil
}

// codeActionResolve implements codeAction/resolve (spec §4.10): the Data
// bag the initial codeAction response attached identifies which offer was
// picked; its Patch closure only runs now, on resolve, so an action the
// client never selects never touches the graph.
func (s *Server) codeActionResolve(glspCtx *glsp.Context, params *protocol.CodeAction) (*protocol.CodeAction, error) {
	data, ok := params.Data.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("codeAction/resolve: missing data")
	}
	uri, _ := data["uri"].(string)
	actionID, _ := data["actionId"].(string)
	lineNum, _ := data["line"].(float64)

	k := uriToKey(s.root, uri)
	blocks, err := s.db.Graph().ProjectKey(k)
	if err != nil {
		return nil, err
	}
	id, ok := nodeIDAtLine(blocks, int(lineNum))
	if !ok {
		return nil, fmt.Errorf("codeAction/resolve: no node at line %d", int(lineNum))
	}

	var offer *CodeAction
	for _, o := range AvailableCodeActions(s.db, k, id) {
		o := o
		if o.ID == actionID {
			offer = &o
			break
		}
	}
	if offer == nil {
		return nil, fmt.Errorf("codeAction/resolve: unknown action %s", actionID)
	}

	p, err := offer.Patch()
	if err != nil {
		return nil, err
	}
	edit := s.patchToWorkspaceEdit(p)
	params.Edit = &edit
	return params, nil
}

// --- commands -------------------------------------------------------------

func (s *Server) executeCommand(glspCtx *glsp.Context, params *protocol.ExecuteCommandParams) (any, error) {
	ctx := context.Background()
	args := params.Arguments

	var p *graph.Patch
	var err error
	switch params.Command {
	case CommandGenerate:
		var a struct {
			URI, PromptURI string
			Line           int
		}
		if err := decodeArgs(args, &a); err != nil {
			return nil, err
		}
		target := uriToKey(s.root, a.URI)
		promptKey := uriToKey(s.root, a.PromptURI)
		blocks, projErr := s.db.Graph().ProjectKey(target)
		if projErr != nil {
			return nil, projErr
		}
		id, found := nodeIDAtLine(blocks, a.Line)
		if !found {
			return nil, fmt.Errorf("generate: no node at line %d", a.Line)
		}
		newKey := s.db.Graph().RandomKey(target.Parent())
		p, err = Generate(ctx, s.db, s.llm, s.cfg.LLMModel, newKey, promptKey, target, id, s.cfg.Markdown.RefsExtension)

	case CommandTransform:
		var a struct {
			URI    string
			Line   int
			Prompt string
		}
		if err := decodeArgs(args, &a); err != nil {
			return nil, err
		}
		target := uriToKey(s.root, a.URI)
		blocks, projErr := s.db.Graph().ProjectKey(target)
		if projErr != nil {
			return nil, projErr
		}
		id, found := nodeIDAtLine(blocks, a.Line)
		if !found {
			return nil, fmt.Errorf("transform: no node at line %d", a.Line)
		}
		p, err = Transform(ctx, s.db, s.llm, s.cfg.LLMModel, target, id, a.Prompt, s.cfg.Markdown.RefsExtension)

	case CommandAttach:
		var a struct {
			URI        string
			Line       int
			AttachRoot string
		}
		if err := decodeArgs(args, &a); err != nil {
			return nil, err
		}
		k := uriToKey(s.root, a.URI)
		p, err = Attach(s.db, k, key.New(a.AttachRoot), s.cfg.AttachTemplate, time.Now())

	case CommandLinkNew:
		var a struct {
			URI  string
			Line int
			Word string
		}
		if err := decodeArgs(args, &a); err != nil {
			return nil, err
		}
		k := uriToKey(s.root, a.URI)
		blocks, projErr := s.db.Graph().ProjectKey(k)
		if projErr != nil {
			return nil, projErr
		}
		id, found := nodeIDAtLine(blocks, a.Line)
		if !found {
			return nil, fmt.Errorf("link-new: no node at line %d", a.Line)
		}
		p, err = LinkNew(s.db, k, id, a.Word, s.cfg.WikiLinks, s.cfg.Markdown.RefsExtension)

	default:
		return nil, fmt.Errorf("unknown command: %s", params.Command)
	}

	if err != nil {
		klog.Errorf("command %s failed: %v", params.Command, err)
		return nil, err
	}
	return nil, s.sendPatch(glspCtx, p)
}

func decodeArgs(args []any, out any) error {
	if len(args) == 0 {
		return fmt.Errorf("command requires an argument object")
	}
	raw, err := json.Marshal(args[0])
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// --- patch -> WorkspaceEdit ------------------------------------------------

// sendPatch applies p to the database (so the next request observes it)
// and pushes the same changes to the client as a workspace/applyEdit
// request, since iwes treats the in-process Database as authoritative and
// the editor's buffers as a view onto it (spec §5 "the graph is owned by
// the server").
func (s *Server) sendPatch(glspCtx *glsp.Context, p *graph.Patch) error {
	edit := s.patchToWorkspaceEdit(p)
	if err := s.db.ApplyPatch(p, s.markdownOpts()); err != nil {
		return err
	}
	if len(edit.DocumentChanges) == 0 {
		return nil
	}
	var result protocol.ApplyWorkspaceEditResult
	return glspCtx.Call("workspace/applyEdit", protocol.ApplyWorkspaceEditParams{Edit: edit}, &result)
}

// patchToWorkspaceEdit lowers a Patch to the wire WorkspaceEdit shape via
// DocumentChanges, pairing CreateFile with an immediate TextDocumentEdit
// the way the LSP spec documents for "create and populate" (spec §4.10
// step 3: Create/Update/Remove).
func (s *Server) patchToWorkspaceEdit(p *graph.Patch) protocol.WorkspaceEdit {
	changes := BuildFileChanges(s.root, s.db.Graph(), p, s.writerOpts())
	var ops []any
	for _, c := range changes {
		uri := c.URI
		switch c.Kind {
		case "create":
			ops = append(ops, protocol.CreateFile{Kind: "create", URI: uri})
			ops = append(ops, protocol.TextDocumentEdit{
				TextDocument: protocol.OptionalVersionedTextDocumentIdentifier{
					TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
				},
				Edits: []any{protocol.TextEdit{Range: wholeDocumentRange(), NewText: c.Content}},
			})
		case "update":
			ops = append(ops, protocol.TextDocumentEdit{
				TextDocument: protocol.OptionalVersionedTextDocumentIdentifier{
					TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
				},
				Edits: []any{fullDocumentReplace(c.Content)},
			})
		case "remove":
			ops = append(ops, protocol.DeleteFile{Kind: "delete", URI: uri})
		}
	}
	return protocol.WorkspaceEdit{DocumentChanges: ops}
}

// fullDocumentReplace rewrites the whole document as a single TextEdit,
// clamping the end position past any possible line count the way editors
// tolerate for "replace the entire file" edits.
func fullDocumentReplace(content string) protocol.TextEdit {
	return protocol.TextEdit{Range: wholeDocumentRange(), NewText: content}
}

func wholeDocumentRange() protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: 0, Character: 0},
		End:   protocol.Position{Line: ^protocol.UInteger(0), Character: 0},
	}
}
