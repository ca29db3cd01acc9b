/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"crypto/tls"
	"flag"
	"os"
	"path/filepath"
	"time"

	// Import all Kubernetes client auth plugins (e.g. Azure, GCP, OIDC, etc.)
	// to ensure that exec-entrypoint and run can make use of them.
	_ "k8s.io/client-go/plugin/pkg/client/auth"

	"go.uber.org/zap"
	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/certwatcher"
	"sigs.k8s.io/controller-runtime/pkg/healthz"
	ctrllog "sigs.k8s.io/controller-runtime/pkg/log"
	ctrlzap "sigs.k8s.io/controller-runtime/pkg/log/zap"
	"sigs.k8s.io/controller-runtime/pkg/metrics/filters"
	metricsserver "sigs.k8s.io/controller-runtime/pkg/metrics/server"
	"sigs.k8s.io/controller-runtime/pkg/webhook"

	llmdv1alpha1 "github.com/llm-d-incubation/llm-fleet-controlplane/api/v1alpha1"
	"github.com/llm-d-incubation/llm-fleet-controlplane/internal/controller"
	"github.com/llm-d-incubation/llm-fleet-controlplane/internal/logger"
	"github.com/llm-d-incubation/llm-fleet-controlplane/internal/metrics"
	"github.com/llm-d-incubation/llm-fleet-controlplane/internal/promquery"
	crmetrics "sigs.k8s.io/controller-runtime/pkg/metrics"
	//+kubebuilder:scaffold:imports
)

var (
	scheme = runtime.NewScheme()
)

func init() {
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))

	utilruntime.Must(llmdv1alpha1.AddToScheme(scheme))
	//+kubebuilder:scaffold:scheme
}

// nolint:gocyclo
func main() {
	// Server and certificate configuration
	var (
		metricsAddr                                      string
		probeAddr                                        string
		metricsCertPath, metricsCertName, metricsCertKey string
		webhookCertPath, webhookCertName, webhookCertKey string
	)
	// Leader election configuration
	var (
		enableLeaderElection    bool
		leaderElectionID        string
		leaderElectionNamespace string
		leaseDuration           time.Duration
		renewDeadline           time.Duration
		retryPeriod             time.Duration
		restTimeout             time.Duration
	)
	// Fleet autoscaler tuning
	var (
		syncInterval     time.Duration
		promQueryTimeout time.Duration
		drainDelay       time.Duration
	)
	// Feature flags
	var (
		secureMetrics bool
		enableHTTP2   bool
		enableWebhook bool
	)
	// Other
	var tlsOpts []func(*tls.Config)

	flag.StringVar(&metricsAddr, "metrics-bind-address", "0", "The address the metrics endpoint binds to. "+
		"Use :8443 for HTTPS or :8080 for HTTP, or leave as 0 to disable the metrics service.")
	flag.StringVar(&probeAddr, "health-probe-bind-address", ":8081", "The address the probe endpoint binds to.")
	flag.BoolVar(&enableLeaderElection, "leader-elect", false,
		"Enable leader election for controller manager. "+
			"Enabling this will ensure there is only one active controller manager.")
	flag.StringVar(&leaderElectionID, "leader-election-id", "6e2a9f3c.serving.ai",
		"The lease name used for leader election.")
	flag.StringVar(&leaderElectionNamespace, "leader-election-namespace", "",
		"The namespace in which the leader election lease is created. Defaults to the manager's own namespace.")
	flag.BoolVar(&secureMetrics, "metrics-secure", true,
		"If set, the metrics endpoint is served securely via HTTPS. Use --metrics-secure=false to use HTTP instead.")
	flag.BoolVar(&enableWebhook, "enable-webhooks", true, "Enable the validating admission webhooks.")
	flag.StringVar(&webhookCertPath, "webhook-cert-path", "", "The directory that contains the webhook certificate.")
	flag.StringVar(&webhookCertName, "webhook-cert-name", "tls.crt", "The name of the webhook certificate file.")
	flag.StringVar(&webhookCertKey, "webhook-cert-key", "tls.key", "The name of the webhook key file.")
	flag.StringVar(&metricsCertPath, "metrics-cert-path", "",
		"The directory that contains the metrics server certificate.")
	flag.StringVar(&metricsCertName, "metrics-cert-name", "tls.crt", "The name of the metrics server certificate file.")
	flag.StringVar(&metricsCertKey, "metrics-cert-key", "tls.key", "The name of the metrics key file.")
	flag.BoolVar(&enableHTTP2, "enable-http2", false,
		"If set, HTTP/2 will be enabled for the metrics and webhook servers")

	flag.DurationVar(&syncInterval, "sync-interval", 30*time.Second,
		"Period between fleet-wide autoscaler sweeps.")
	flag.DurationVar(&promQueryTimeout, "prom-query-timeout", 10*time.Second,
		"Timeout for a single Prometheus query issued during fleet evaluation.")
	flag.DurationVar(&drainDelay, "drain-delay", 30*time.Second,
		"Fixed delay between detaching an instance from its router and deleting it.")

	// Leader election timeout flags use the controller-runtime defaults
	// (15s/10s/2s) rather than a widened fork-specific override: see
	// DESIGN.md's Open Question resolution.
	flag.DurationVar(&leaseDuration, "leader-election-lease-duration", 15*time.Second,
		"The duration that non-leader candidates will wait to force acquire leadership.")
	flag.DurationVar(&renewDeadline, "leader-election-renew-deadline", 10*time.Second,
		"The duration that the acting master will retry refreshing leadership before giving up.")
	flag.DurationVar(&retryPeriod, "leader-election-retry-period", 2*time.Second,
		"The duration the clients should wait between tries of actions.")
	flag.DurationVar(&restTimeout, "rest-client-timeout", 30*time.Second,
		"The timeout for REST API calls to the Kubernetes API server.")

	flag.Parse()

	setupLog, err := logger.InitLogger()
	if err != nil {
		panic("unable to initialize logger: " + err.Error())
	}
	defer func() {
		if err := setupLog.Sync(); err != nil {
			_, _ = os.Stderr.WriteString("error syncing logger: " + err.Error() + "\n")
		}
	}()

	ctrllog.SetLogger(ctrlzap.New(ctrlzap.UseDevMode(false), ctrlzap.WriteTo(os.Stdout)))

	setupLog.Info("Zap logger initialized")

	// if the enable-http2 flag is false (the default), http/2 should be disabled
	// due to its vulnerabilities. More specifically, disabling http/2 will
	// prevent from being vulnerable to the HTTP/2 Stream Cancellation and
	// Rapid Reset CVEs. For more information see:
	// - https://github.com/advisories/GHSA-qppj-fm5r-hxr3
	// - https://github.com/advisories/GHSA-4374-p667-p6c8
	disableHTTP2 := func(c *tls.Config) {
		setupLog.Info("disabling http/2")
		c.NextProtos = []string{"http/1.1"}
	}

	if !enableHTTP2 {
		tlsOpts = append(tlsOpts, disableHTTP2)
	}

	// Create watchers for metrics and webhooks certificates
	var metricsCertWatcher, webhookCertWatcher *certwatcher.CertWatcher

	// Initial webhook TLS options
	webhookTLSOpts := tlsOpts

	if len(webhookCertPath) > 0 {
		setupLog.Info("Initializing webhook certificate watcher using provided certificates",
			zap.String("webhook-cert-path", webhookCertPath),
			zap.String("webhook-cert-name", webhookCertName),
			zap.String("webhook-cert-key", webhookCertKey))

		var err error
		webhookCertWatcher, err = certwatcher.New(
			filepath.Join(webhookCertPath, webhookCertName),
			filepath.Join(webhookCertPath, webhookCertKey),
		)
		if err != nil {
			setupLog.Error("Failed to initialize webhook certificate watcher", zap.Error(err))
			os.Exit(1)
		}

		webhookTLSOpts = append(webhookTLSOpts, func(config *tls.Config) {
			config.GetCertificate = webhookCertWatcher.GetCertificate
		})
	}

	webhookServer := webhook.NewServer(webhook.Options{
		TLSOpts: webhookTLSOpts,
	})

	// The Metrics options configure the server.
	// More info:
	// - https://pkg.go.dev/sigs.k8s.io/controller-runtime@v0.22.1/pkg/metrics/server
	// - https://book.kubebuilder.io/reference/metrics.html
	metricsServerOptions := metricsserver.Options{
		BindAddress:   metricsAddr,
		SecureServing: secureMetrics,
		TLSOpts:       tlsOpts,
	}

	if secureMetrics {
		// FilterProvider is used to protect the metrics endpoint with authn/authz.
		metricsServerOptions.FilterProvider = filters.WithAuthenticationAndAuthorization
	}

	if len(metricsCertPath) > 0 {
		setupLog.Info("Initializing metrics certificate watcher using provided certificates",
			zap.String("metrics-cert-path", metricsCertPath),
			zap.String("metrics-cert-name", metricsCertName),
			zap.String("metrics-cert-key", metricsCertKey),
		)

		var err error
		metricsCertWatcher, err = certwatcher.New(
			filepath.Join(metricsCertPath, metricsCertName),
			filepath.Join(metricsCertPath, metricsCertKey),
		)
		if err != nil {
			setupLog.Error("Failed to initialize metrics certificate watcher", zap.Error(err))
			os.Exit(1)
		}

		metricsServerOptions.TLSOpts = append(metricsServerOptions.TLSOpts, func(config *tls.Config) {
			config.GetCertificate = metricsCertWatcher.GetCertificate
		})
	}

	restConfig := ctrl.GetConfigOrDie()
	restConfig.Timeout = restTimeout

	mgr, err := ctrl.NewManager(restConfig, ctrl.Options{
		Scheme:                 scheme,
		Metrics:                metricsServerOptions,
		WebhookServer:          webhookServer,
		HealthProbeBindAddress: probeAddr,
		LeaderElection:          enableLeaderElection,
		LeaderElectionID:        leaderElectionID,
		LeaderElectionNamespace: leaderElectionNamespace,
		LeaseDuration:          &leaseDuration,
		RenewDeadline:          &renewDeadline,
		RetryPeriod:            &retryPeriod,
		// LeaderElectionReleaseOnCancel is safe here because the process
		// exits immediately after mgr.Start() returns below.
		LeaderElectionReleaseOnCancel: true,
	})
	if err != nil {
		setupLog.Error("unable to start manager", zap.Error(err))
		os.Exit(1)
	}

	metricsEmitter := metrics.NewMetricsEmitter()

	clusterReconciler := &controller.LLMClusterReconciler{
		Client:   mgr.GetClient(),
		Scheme:   mgr.GetScheme(),
		Recorder: mgr.GetEventRecorderFor("llmcluster-controller"),
		Metrics:  metricsEmitter,
	}
	if err = clusterReconciler.SetupWithManager(mgr); err != nil {
		setupLog.Error("unable to create controller", zap.String("controller", "llmcluster"), zap.Error(err))
		os.Exit(1)
	}

	autoscalerReconciler := &controller.LLMClusterAutoscalerReconciler{
		Client:           mgr.GetClient(),
		Scheme:           mgr.GetScheme(),
		Recorder:         mgr.GetEventRecorderFor("llmclusterautoscaler-controller"),
		Metrics:          metricsEmitter,
		SyncInterval:     syncInterval,
		DrainDelay:       drainDelay,
		PromQueryTimeout: promQueryTimeout,
		QueryOverrides:   promquery.NewOverrideCache(),
	}
	if err = autoscalerReconciler.SetupWithManager(mgr); err != nil {
		setupLog.Error("unable to create controller", zap.String("controller", "llmclusterautoscaler"), zap.Error(err))
		os.Exit(1)
	}

	if enableWebhook {
		if err = (&llmdv1alpha1.LLMCluster{}).SetupWebhookWithManager(mgr); err != nil {
			setupLog.Error("unable to create webhook", zap.String("webhook", "LLMCluster"), zap.Error(err))
			os.Exit(1)
		}
		if err = (&llmdv1alpha1.LLMClusterAutoscaler{}).SetupWebhookWithManager(mgr); err != nil {
			setupLog.Error("unable to create webhook", zap.String("webhook", "LLMClusterAutoscaler"), zap.Error(err))
			os.Exit(1)
		}
	}
	// +kubebuilder:scaffold:builder

	if metricsCertWatcher != nil {
		setupLog.Info("Adding metrics certificate watcher to manager")
		if err := mgr.Add(metricsCertWatcher); err != nil {
			setupLog.Error("unable to add metrics certificate watcher to manager", zap.Error(err))
			os.Exit(1)
		}
	}

	if webhookCertWatcher != nil {
		setupLog.Info("Adding webhook certificate watcher to manager")
		if err := mgr.Add(webhookCertWatcher); err != nil {
			setupLog.Error("unable to add webhook certificate watcher to manager", zap.Error(err))
			os.Exit(1)
		}
	}

	if err := mgr.AddHealthzCheck("healthz", healthz.Ping); err != nil {
		setupLog.Error("unable to set up health check", zap.Error(err))
		os.Exit(1)
	}
	if err := mgr.AddReadyzCheck("readyz", healthz.Ping); err != nil {
		setupLog.Error("unable to set up ready check", zap.Error(err))
		os.Exit(1)
	}

	setupLog.Info("Starting manager")

	if logger.Log != nil {
		// ignore sync errors: https://github.com/uber-go/zap/issues/328
		_ = logger.Log.Sync()
	}

	setupLog.Info("Registering custom metrics with Prometheus registry")
	if err := metrics.InitMetrics(crmetrics.Registry); err != nil {
		setupLog.Error("failed to initialize metrics", zap.Error(err))
		os.Exit(1)
	}

	if err := mgr.Start(ctrl.SetupSignalHandler()); err != nil {
		setupLog.Error("problem running manager", zap.Error(err))
		os.Exit(1)
	}
}
