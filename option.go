package runway

import (
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/viant/afs/storage"
	"github.com/viant/x"

	"github.com/agencykit/runway/model"
	"github.com/agencykit/runway/model/types"
	"github.com/agencykit/runway/runtime/execution"
	"github.com/agencykit/runway/service/approval"
	"github.com/agencykit/runway/service/dao"
	"github.com/agencykit/runway/service/executor"
	"github.com/agencykit/runway/service/journal"
	"github.com/agencykit/runway/service/messaging"
	"github.com/agencykit/runway/tracing"
)

// Option customizes the engine service.
type Option func(s *Service)

// WithTemplateDAO sets the template store implementation
func WithTemplateDAO(templates dao.Service[string, model.Template]) Option {
	return func(s *Service) { s.runtime.templateDAO = templates }
}

// WithRunDAO sets the run ledger store implementation
func WithRunDAO(runs dao.Service[string, execution.Run]) Option {
	return func(s *Service) { s.runtime.runDAO = runs }
}

// WithJobDAO sets the tracking job store implementation
func WithJobDAO(jobs dao.Service[string, execution.Job]) Option {
	return func(s *Service) { s.runtime.jobDAO = jobs }
}

// WithJournalService sets the execution log implementation
func WithJournalService(svc journal.Service) Option {
	return func(s *Service) { s.journalService = svc }
}

// WithApprovalService sets the approval service implementation
func WithApprovalService(svc approval.Service) Option {
	return func(s *Service) { s.approvalService = svc }
}

// WithQueue sets the run submission queue
func WithQueue(queue messaging.Queue[execution.Job]) Option {
	return func(s *Service) { s.queue = queue }
}

// WithTemplateBaseURL loads templates from YAML files under the given URL
// (file, embed or any scheme afs supports).
func WithTemplateBaseURL(url string) Option {
	return func(s *Service) { s.templateBaseURL = url }
}

// WithTemplateFsOptions sets file system options passed through to template
// storage, e.g. an embedded file system.
func WithTemplateFsOptions(options ...storage.Option) Option {
	return func(s *Service) { s.templateFsOptions = options }
}

// WithExtensionTypes sets the extension types
func WithExtensionTypes(types ...*x.Type) Option {
	return func(s *Service) { s.extensionTypes = types }
}

// WithExtensionServices sets the extension action services
func WithExtensionServices(services ...types.Service) Option {
	return func(s *Service) { s.extensionServices = services }
}

// WithWorkerCount sets the dispatcher worker count
func WithWorkerCount(count int) Option {
	return func(s *Service) { s.workerCount = count }
}

// WithExecutorOptions lets the caller supply additional options passed to
// executor.New (e.g. a per-step delay).
func WithExecutorOptions(opts ...executor.Option) Option {
	return func(s *Service) {
		s.executorOptions = append(s.executorOptions, opts...)
	}
}

// WithTracing configures OpenTelemetry tracing for the service. If outputFile is empty the
// stdout exporter is used; otherwise traces are written to the supplied file path. The function is
// safe to call multiple times – the first successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom SpanExporter. This enables
// integrations with exporters other than the built-in stdout exporter, for example OTLP, Jaeger or
// Zipkin. The function is safe to call multiple times – the first successful initialisation wins.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
